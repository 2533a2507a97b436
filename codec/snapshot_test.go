package codec_test

import (
	"strings"
	"testing"

	"github.com/kontrakt-dev/kontrakt/codec"
	"github.com/kontrakt-dev/kontrakt/contract"
	"github.com/kontrakt-dev/kontrakt/diff"
	"github.com/kontrakt-dev/kontrakt/schema"
)

func fixtureSnapshot() *contract.Snapshot {
	user := schema.ClosedObject(map[string]schema.Property{
		"id":    schema.Required(schema.Integer()),
		"email": schema.Required(schema.String().WithFormat("email")),
		"state": schema.Required(schema.Match(schema.Enum("active", "inactive"))),
		"pet": schema.Optional(schema.DiscriminatedUnion("petType", map[string]*schema.Node{
			"cat": schema.Object(map[string]schema.Property{
				"petType": schema.Required(schema.String()),
			}).Named("Cat"),
		})),
		"note": schema.Optional(schema.String().AsNullable()),
	}).Named("User")

	get := &contract.EndpointContract{
		Method: "GET",
		Path:   contract.MustCompilePath("/users/{id}"),
		Query: map[string]contract.QueryExpectation{
			"expand": {Pattern: "orders|profile"},
		},
		Headers: map[string]contract.HeaderExpectation{
			"Authorization": {Required: true},
		},
		Responses: []contract.ResponseExpectation{
			{Status: 200, ContentType: "application/json", Schema: user},
			{Status: 404},
		},
		Example:        map[string]any{"id": "42", "email": "ann@example.com"},
		ProviderStates: []string{"user 42 exists"},
	}
	post := &contract.EndpointContract{
		Method: "POST",
		Path:   contract.MustCompilePath("/users"),
		Request: &contract.RequestExpectation{
			ContentType: "application/json",
			Required:    true,
			Schema:      user,
			Only:        []string{"id", "email"},
			Strict:      true,
		},
		Responses: []contract.ResponseExpectation{{Status: 201, Schema: user}},
	}
	return contract.NewSnapshot("user-service", get, post)
}

func decodeOpt() codec.DecodeOpt {
	return codec.DecodeOpt{Matchers: map[string]schema.Matcher{
		"enum": schema.Enum("active", "inactive"),
	}}
}

func TestSnapshotCodec_JSONRoundTrip(t *testing.T) {
	snap := fixtureSnapshot()
	data, err := codec.EncodeJSON(snap)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := codec.DecodeJSON(data, decodeOpt())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	assertEquivalent(t, snap, back)
}

func TestSnapshotCodec_YAMLRoundTrip(t *testing.T) {
	snap := fixtureSnapshot()
	data, err := codec.EncodeYAML(snap)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := codec.DecodeYAML(data, decodeOpt())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	assertEquivalent(t, snap, back)
}

// assertEquivalent checks behavioral equivalence: an empty diff in both
// directions and identical matching/validation behavior.
func assertEquivalent(t *testing.T, want, got *contract.Snapshot) {
	t.Helper()
	if got.Name() != want.Name() {
		t.Fatalf("name: want %q, got %q", want.Name(), got.Name())
	}
	if d := diff.Compare(want, got); len(d.Changes()) != 0 {
		t.Fatalf("decoded snapshot differs: %v", d.Changes())
	}
	if d := diff.Compare(got, want); len(d.Changes()) != 0 {
		t.Fatalf("decoded snapshot differs in reverse: %v", d.Changes())
	}

	e, ok := got.FindEndpoint("/users/42", "GET")
	if !ok {
		t.Fatalf("decoded snapshot lost endpoint routing")
	}
	if p := e.ExtractPathParams("/users/42"); p["id"] != "42" {
		t.Fatalf("decoded template lost extraction: %v", p)
	}

	// the example payload is carried verbatim; value types after decoding
	// follow the document decoder, so only string fields are compared
	ex, ok := e.Example.(map[string]any)
	if !ok || ex["email"] != "ann@example.com" {
		t.Fatalf("decoded snapshot lost the example payload: %#v", e.Example)
	}

	resp, ok := e.FindResponse(200)
	if !ok || resp.Schema == nil {
		t.Fatalf("decoded snapshot lost the 200 response schema")
	}
	res := schema.ValidateJSON(resp.Schema, []byte(`{"id":1,"email":"a@example.com","state":"active"}`), e.Label())
	if !res.Valid() {
		t.Fatalf("decoded schema rejects a valid payload: %v", res.Violations())
	}
	res = schema.ValidateJSON(resp.Schema, []byte(`{"id":1,"email":"nope","state":"active"}`), e.Label())
	if res.Valid() {
		t.Fatalf("decoded schema lost the email format check")
	}
	res = schema.ValidateJSON(resp.Schema, []byte(`{"id":1,"email":"a@example.com","state":"gone"}`), e.Label())
	if res.Valid() {
		t.Fatalf("decoded schema lost the enum matcher")
	}
}

func TestSnapshotCodec_UnknownMatcher(t *testing.T) {
	snap := fixtureSnapshot()
	data, err := codec.EncodeJSON(snap)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	_, err = codec.DecodeJSON(data) // no matcher set supplied
	if err == nil {
		t.Fatalf("expected error for unresolved matcher")
	}
	if !strings.Contains(err.Error(), "enum") {
		t.Fatalf("error should name the unknown matcher, got %v", err)
	}
}

func TestSnapshotCodec_UnknownKind(t *testing.T) {
	_, err := codec.DecodeJSON([]byte(`{
		"name": "x",
		"endpoints": [{
			"method": "GET",
			"path": "/x",
			"responses": [{"status": 200, "schema": {"kind": "tuple"}}]
		}]
	}`))
	if err == nil || !strings.Contains(err.Error(), "tuple") {
		t.Fatalf("expected unknown kind error, got %v", err)
	}
}

func TestSnapshotCodec_BadTemplate(t *testing.T) {
	_, err := codec.DecodeJSON([]byte(`{
		"name": "x",
		"endpoints": [{"method": "GET", "path": "/users/{id"}]
	}`))
	if err == nil {
		t.Fatalf("expected error for bad template")
	}
}
