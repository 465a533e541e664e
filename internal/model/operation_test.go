package model

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestVariant(t *testing.T) {
	body := BodyRequest{Schema: &SchemaRef{Name: "Order"}}
	multipart := MultipartRequest{Parts: []RequestPart{{Name: "file"}}}

	tests := []struct {
		name string
		in   RequestObject
		want RequestObject
	}{
		{name: "nil", in: nil, want: nil},
		{name: "body", in: body, want: body},
		{name: "body pointer", in: &body, want: body},
		{name: "nil body pointer", in: (*BodyRequest)(nil), want: nil},
		{name: "multipart", in: multipart, want: multipart},
		{name: "multipart pointer", in: &multipart, want: multipart},
		{name: "nil multipart pointer", in: (*MultipartRequest)(nil), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Variant(tt.in))
		})
	}
}

func TestDescriptorsSerializeIgnored(t *testing.T) {
	header, err := json.Marshal(HeaderDescriptor{Name: "X-Trace", Ignored: true})
	require.NoError(t, err)
	param, err := json.Marshal(ParameterDescriptor{Name: "debug", Ignored: true})
	require.NoError(t, err)

	require.Contains(t, string(header), `"ignored":true`)
	require.Contains(t, string(param), `"ignored":true`)
}
