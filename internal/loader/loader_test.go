package loader

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kolah/apispec/internal/model"
)

func TestLoadSnippets(t *testing.T) {
	snippets, err := LoadSnippets(filepath.Join("testdata", "captures.yaml"))
	require.NoError(t, err)
	require.Len(t, snippets, 2)

	order := snippets[0]
	require.Equal(t, "create-order", order.Exchange.Name)
	require.Equal(t, "application/json", order.Exchange.Request.Headers.Get("Content-Type"))
	require.Equal(t, []string{"a=1", "b=2"}, order.Exchange.Response.Headers.Values("Set-Cookie"))
	require.Equal(t, `{"id":1}`, string(order.Exchange.Response.Body))
	require.Equal(t, 201, order.Exchange.Response.Status)

	body, ok := order.Parameters.Request.(model.BodyRequest)
	require.True(t, ok)
	require.Equal(t, "OrderRequest", body.Schema.Name)
	require.Equal(t, []model.FieldDescriptor{
		{Path: "items[].id", Type: "integer"},
		{Path: "items[].tags[]", Type: "string", Optional: true},
	}, body.Fields)
	require.Equal(t, "Order", order.Parameters.ResponseSchema.Name)
	require.Equal(t, "Order id", order.Parameters.ResponseFields[0].Description)

	upload := snippets[1]
	require.Equal(t, map[string]string{"kind": "avatar"}, upload.Placeholders)
	multipart, ok := upload.Parameters.Request.(model.MultipartRequest)
	require.True(t, ok)
	require.Len(t, multipart.Parts, 2)
	require.Nil(t, multipart.Parts[1].Schema)
	require.Len(t, upload.Exchange.Request.Parts, 2)
	require.Equal(t, "image/png", upload.Exchange.Request.Parts[1].Headers.Get("Content-Type"))
	require.Empty(t, upload.Exchange.Response.Body)
}

func TestLoadSnippetsFromDirectory(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(filepath.Join("testdata", "captures.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "a.yml"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	snippets, err := LoadSnippets(dir)
	require.NoError(t, err)
	require.Len(t, snippets, 2)
}

func TestDecodeSnippetsErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "unknown request kind",
			doc:  "operation: x\ndocumentation:\n  request:\n    kind: stream\n",
			want: `unknown request kind "stream"`,
		},
		{
			name: "missing operation",
			doc:  "urlTemplate: /x\n",
			want: "missing operation name",
		},
		{
			name: "multipart fields outside parts",
			doc:  "operation: x\ndocumentation:\n  request:\n    kind: multipart\n    fields:\n      - path: a\n        type: string\n",
			want: "outside a part",
		},
		{
			name: "headers not a mapping",
			doc:  "operation: x\nrequest:\n  headers: [a]\n",
			want: "headers must be a mapping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnippets(strings.NewReader(tt.doc))
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestEncodeSnippetsCanBeDecoded(t *testing.T) {
	in := model.Snippet{
		Exchange: model.Exchange{
			Name:        "get-user",
			URLTemplate: "/users/{id}",
			Request: model.Request{
				Method:  "GET",
				URI:     "/users/7",
				Headers: http.Header{"Authorization": {"Basic dTpw"}},
			},
			Response: model.Response{Status: 200, Body: []byte(`{"name":"x"}`)},
		},
		Parameters: model.Parameters{
			PathParameters: []model.ParameterDescriptor{{Name: "id", Type: "integer"}},
			ResponseFields: []model.FieldDescriptor{{Path: "name", Type: "string"}},
		},
	}

	var buf strings.Builder
	require.NoError(t, EncodeSnippets(&buf, []model.Snippet{in, in}))

	out, err := DecodeSnippets(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, in.Exchange, out[1].Exchange)
	require.Equal(t, in.Parameters.PathParameters, out[0].Parameters.PathParameters)
	require.Equal(t, in.Parameters.ResponseFields, out[0].Parameters.ResponseFields)
	require.Nil(t, out[0].Parameters.Request)
}

func TestParseFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *FieldSet
	}{
		{
			name:  "yaml list",
			input: "- path: id\n  type: integer\n",
			want:  &FieldSet{Fields: []model.FieldDescriptor{{Path: "id", Type: "integer"}}},
		},
		{
			name:  "json object with title",
			input: `{"title": "User", "fields": [{"path": "name", "type": "string", "optional": true}]}`,
			want:  &FieldSet{Title: "User", Fields: []model.FieldDescriptor{{Path: "name", Type: "string", Optional: true}}},
		},
		{
			name:  "empty",
			input: "",
			want:  &FieldSet{Fields: []model.FieldDescriptor{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFields([]byte(tt.input))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFields([]byte("just a string"))
	require.ErrorContains(t, err, "expected a list of fields")
}

func TestLoadResources(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	write("b-op/resource.json", `{"operationId":"b-op","request":{"path":"/b","method":"GET"},"response":{"status":200},"tags":["b"]}`)
	write("a-op/resource.json", `{"operationId":"a-op","request":{"path":"/a","method":"POST","jsonSchema":{"type":"object"}},"response":{"status":201},"tags":[]}`)
	write("a-op/other.json", `not json`)

	resources, err := LoadResources(dir)
	require.NoError(t, err)
	require.Len(t, resources, 2)
	require.Equal(t, "a-op", resources[0].OperationID)
	require.JSONEq(t, `{"type":"object"}`, string(resources[0].Request.JSONSchema))
	require.Equal(t, "GET", resources[1].Request.Method)

	write("c-op/resource.json", `{"request":{}}`)
	_, err = LoadResources(dir)
	require.ErrorContains(t, err, "missing operationId")
}

func TestParseContract(t *testing.T) {
	doc := `openapi: 3.0.1
info:
  title: Orders
  version: "1.0"
paths:
  /orders:
    get:
      responses:
        "200":
          description: ok
`
	c, err := ParseContract([]byte(doc), nil)
	require.NoError(t, err)
	require.Equal(t, "3.0.1", c.Version)
	require.Equal(t, "Orders", c.Model.Model.Info.Title)
	require.Len(t, c.Warnings, 1)

	_, err = ParseContract([]byte("swagger: \"2.0\"\ninfo:\n  title: x\n  version: \"1\"\npaths: {}\n"), nil)
	require.ErrorContains(t, err, "unsupported OpenAPI version")
}
