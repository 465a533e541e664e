package jsonschema

import (
	"testing"

	"github.com/hexops/autogold/v2"
	"github.com/kolah/apispec/internal/model"
	"github.com/stretchr/testify/require"
)

func mustGenerate(t *testing.T, fields []model.FieldDescriptor, title string) string {
	t.Helper()
	out, err := Generate(fields, title)
	require.NoError(t, err)
	return out
}

func TestFormatItemsWithTags(t *testing.T) {
	got := mustGenerate(t, []model.FieldDescriptor{
		field("items[].id", "integer", false),
		field("items[].tags[]", "string", true),
	}, "")

	autogold.Expect(`{
  "type": "object",
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {
            "type": "integer"
          },
          "tags": {
            "type": "array",
            "items": {
              "type": "string"
            }
          }
        },
        "required": [
          "id"
        ]
      }
    }
  },
  "required": [
    "items"
  ]
}`).Equal(t, got)
}

func TestFormatRootArray(t *testing.T) {
	got := mustGenerate(t, []model.FieldDescriptor{
		field("[]", "object", false),
		field("[].name", "string", false),
	}, "")

	autogold.Expect(`{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "name": {
        "type": "string"
      }
    },
    "required": [
      "name"
    ]
  }
}`).Equal(t, got)
}

func TestFormatUnion(t *testing.T) {
	got := mustGenerate(t, []model.FieldDescriptor{
		field("value", "string", false),
		field("value", "number", false),
	}, "")

	autogold.Expect(`{
  "type": "object",
  "properties": {
    "value": {
      "oneOf": [
        {
          "type": "string"
        },
        {
          "type": "number"
        }
      ]
    }
  },
  "required": [
    "value"
  ]
}`).Equal(t, got)
}

func TestFormatTitleDescriptionAndAny(t *testing.T) {
	got := mustGenerate(t, []model.FieldDescriptor{
		{Path: "id", Type: "integer", Description: "Identifier"},
		{Path: "payload", Type: "VARIES", Optional: true},
	}, "Order")

	autogold.Expect(`{
  "type": "object",
  "title": "Order",
  "properties": {
    "id": {
      "type": "integer",
      "description": "Identifier"
    },
    "payload": {}
  },
  "required": [
    "id"
  ]
}`).Equal(t, got)
}

func TestFormatEmpty(t *testing.T) {
	autogold.Expect(`{
  "type": "object"
}`).Equal(t, mustGenerate(t, nil, ""))
}

func TestFormatEscapesStrings(t *testing.T) {
	got := mustGenerate(t, []model.FieldDescriptor{
		{Path: `['a"b']`, Type: "string", Description: "<html> & \"quotes\""},
	}, "")

	require.Contains(t, got, `"a\"b": {`)
	require.Contains(t, got, `"description": "<html> & \"quotes\""`)
}

func TestGenerateMultipart(t *testing.T) {
	got, err := GenerateMultipart([]model.RequestPart{
		{Name: "metadata", Fields: []model.FieldDescriptor{field("name", "string", false)}},
		{Name: "file"},
		{Name: "extra", Fields: []model.FieldDescriptor{field("size", "integer", true)}},
	})
	require.NoError(t, err)

	autogold.Expect(`{
  "type": "object",
  "properties": {
    "name": {
      "type": "string"
    },
    "size": {
      "type": "integer"
    }
  },
  "required": [
    "name"
  ]
}`).Equal(t, got)
}

func TestFormatNullableContainer(t *testing.T) {
	got := mustGenerate(t, []model.FieldDescriptor{
		field("address", "object", true),
		field("address", "null", true),
		field("address.city", "string", false),
		field("tags", "null", true),
		field("tags[]", "string", true),
	}, "")

	autogold.Expect(`{
  "type": "object",
  "properties": {
    "address": {
      "type": [
        "object",
        "null"
      ],
      "properties": {
        "city": {
          "type": "string"
        }
      },
      "required": [
        "city"
      ]
    },
    "tags": {
      "type": [
        "array",
        "null"
      ],
      "items": {
        "type": "string"
      }
    }
  }
}`).Equal(t, got)
}
