package schema_test

import (
	"testing"

	json "github.com/goccy/go-json"

	"github.com/kontrakt-dev/kontrakt/schema"
)

// sampleNodes covers every node kind, formats included, for the
// generate-then-validate round trip.
func sampleNodes() map[string]*schema.Node {
	return map[string]*schema.Node{
		"string":      schema.String(),
		"email":       schema.String().WithFormat("email"),
		"uuid":        schema.String().WithFormat("uuid"),
		"date-time":   schema.String().WithFormat("date-time"),
		"ipv4":        schema.String().WithFormat("ipv4"),
		"integer":     schema.Integer(),
		"number":      schema.Number(),
		"boolean":     schema.Boolean(),
		"nullable":    schema.String().AsNullable(),
		"array":       schema.Array(schema.Integer()),
		"regex":       schema.Match(schema.Regex(`^[a-z]+$`, "abc")),
		"enum":        schema.Match(schema.Enum("on", "off")),
		"range":       schema.Match(schema.Range(0, 100)),
		"each-like":   schema.Match(schema.EachLike(schema.String(), 2)),
		"plain-union": schema.Union(schema.Integer(), schema.String()),
		"object": schema.Object(map[string]schema.Property{
			"id":    schema.Required(schema.Integer()),
			"email": schema.Required(schema.String().WithFormat("email")),
			"tags":  schema.Optional(schema.Array(schema.String())),
		}),
		"discriminated": schema.DiscriminatedUnion("kind", map[string]*schema.Node{
			"a": schema.Object(map[string]schema.Property{
				"kind": schema.Required(schema.String()),
				"x":    schema.Required(schema.Integer()),
			}),
			"b": schema.Object(map[string]schema.Property{
				"kind": schema.Required(schema.String()),
				"y":    schema.Required(schema.Boolean()),
			}),
		}),
	}
}

func TestSample_ValidatesAgainstOwnSchema(t *testing.T) {
	for name, n := range sampleNodes() {
		t.Run(name, func(t *testing.T) {
			v := schema.Sample(n)
			data, err := json.Marshal(v)
			if err != nil {
				t.Fatalf("marshal sample: %v", err)
			}
			res := schema.ValidateJSON(n, data, "sample")
			if !res.Valid() {
				t.Fatalf("sample %s does not validate against its own schema: %v", data, res.Violations())
			}
		})
	}
}

func TestSample_ObjectIncludesEveryDeclaredProperty(t *testing.T) {
	n := schema.Object(map[string]schema.Property{
		"id":   schema.Required(schema.Integer()),
		"note": schema.Optional(schema.String()),
	})
	m, ok := schema.Sample(n).(map[string]any)
	if !ok {
		t.Fatalf("expected map sample, got %T", schema.Sample(n))
	}
	if _, ok := m["id"]; !ok {
		t.Fatalf("sample should include required property id")
	}
	if _, ok := m["note"]; !ok {
		t.Fatalf("sample should include optional property note")
	}
}

func TestSample_FormatAware(t *testing.T) {
	v := schema.Sample(schema.String().WithFormat("email"))
	s, ok := v.(string)
	if !ok || s == "string" {
		t.Fatalf("email format should yield a literal example address, got %v", v)
	}
}

func TestSample_ArrayHasOneElement(t *testing.T) {
	v := schema.Sample(schema.Array(schema.Boolean()))
	arr, ok := v.([]any)
	if !ok || len(arr) != 1 {
		t.Fatalf("expected one-element array sample, got %v", v)
	}
}
