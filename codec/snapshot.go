package codec

import (
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/kontrakt-dev/kontrakt/contract"
	"github.com/kontrakt-dev/kontrakt/schema"
)

// DecodeOpt bundles decoding options. The zero value resolves no matchers:
// documents referencing a matcher then fail with a descriptive error.
type DecodeOpt struct {
	// Matchers resolves matcher names found in the document back to
	// implementations.
	Matchers map[string]schema.Matcher
}

// EncodeJSON renders the snapshot as a JSON document.
func EncodeJSON(s *contract.Snapshot) ([]byte, error) {
	doc, err := encodeSnapshot(s)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// DecodeJSON reconstructs a snapshot from a JSON document.
func DecodeJSON(data []byte, opts ...DecodeOpt) (*contract.Snapshot, error) {
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("codec: decode snapshot JSON: %w", err)
	}
	return decodeSnapshot(&doc, lastOpt(opts))
}

// EncodeYAML renders the snapshot as a YAML document.
func EncodeYAML(s *contract.Snapshot) ([]byte, error) {
	doc, err := encodeSnapshot(s)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}

// DecodeYAML reconstructs a snapshot from a YAML document.
func DecodeYAML(data []byte, opts ...DecodeOpt) (*contract.Snapshot, error) {
	var doc snapshotDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("codec: decode snapshot YAML: %w", err)
	}
	return decodeSnapshot(&doc, lastOpt(opts))
}

func lastOpt(opts []DecodeOpt) DecodeOpt {
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return DecodeOpt{}
}

// ---- document model ----

type snapshotDoc struct {
	Name      string        `json:"name" yaml:"name"`
	Endpoints []endpointDoc `json:"endpoints" yaml:"endpoints"`
}

type endpointDoc struct {
	Method         string               `json:"method" yaml:"method"`
	Path           string               `json:"path" yaml:"path"`
	Request        *requestDoc          `json:"request,omitempty" yaml:"request,omitempty"`
	Responses      []responseDoc        `json:"responses,omitempty" yaml:"responses,omitempty"`
	Headers        map[string]expectDoc `json:"headers,omitempty" yaml:"headers,omitempty"`
	Query          map[string]expectDoc `json:"query,omitempty" yaml:"query,omitempty"`
	Example        any                  `json:"example,omitempty" yaml:"example,omitempty"`
	ProviderStates []string             `json:"providerStates,omitempty" yaml:"providerStates,omitempty"`
}

type requestDoc struct {
	ContentType string               `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Required    bool                 `json:"required,omitempty" yaml:"required,omitempty"`
	Schema      *nodeDoc             `json:"schema,omitempty" yaml:"schema,omitempty"`
	Headers     map[string]expectDoc `json:"headers,omitempty" yaml:"headers,omitempty"`
	Only        []string             `json:"only,omitempty" yaml:"only,omitempty"`
	Strict      bool                 `json:"strict,omitempty" yaml:"strict,omitempty"`
}

type responseDoc struct {
	Status      int                  `json:"status" yaml:"status"`
	ContentType string               `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Schema      *nodeDoc             `json:"schema,omitempty" yaml:"schema,omitempty"`
	Headers     map[string]expectDoc `json:"headers,omitempty" yaml:"headers,omitempty"`
}

type expectDoc struct {
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Pattern  string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

type nodeDoc struct {
	Kind     string `json:"kind" yaml:"kind"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Nullable bool   `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Format   string `json:"format,omitempty" yaml:"format,omitempty"`

	Properties      map[string]propertyDoc `json:"properties,omitempty" yaml:"properties,omitempty"`
	AllowAdditional *bool                  `json:"allowAdditional,omitempty" yaml:"allowAdditional,omitempty"`

	Item *nodeDoc `json:"item,omitempty" yaml:"item,omitempty"`

	Matcher string `json:"matcher,omitempty" yaml:"matcher,omitempty"`

	Discriminator string              `json:"discriminator,omitempty" yaml:"discriminator,omitempty"`
	Mapping       map[string]*nodeDoc `json:"mapping,omitempty" yaml:"mapping,omitempty"`
	Branches      []*nodeDoc          `json:"branches,omitempty" yaml:"branches,omitempty"`
}

type propertyDoc struct {
	Schema   *nodeDoc `json:"schema" yaml:"schema"`
	Required bool     `json:"required,omitempty" yaml:"required,omitempty"`
}

// ---- encoding ----

func encodeSnapshot(s *contract.Snapshot) (*snapshotDoc, error) {
	if s == nil {
		panic("codec: encode called with nil snapshot")
	}
	doc := &snapshotDoc{Name: s.Name()}
	for _, e := range s.Endpoints() {
		ed, err := encodeEndpoint(e)
		if err != nil {
			return nil, err
		}
		doc.Endpoints = append(doc.Endpoints, *ed)
	}
	return doc, nil
}

func encodeEndpoint(e *contract.EndpointContract) (*endpointDoc, error) {
	ed := &endpointDoc{
		Method:         e.Method,
		Path:           e.Path.Raw(),
		Headers:        encodeHeaderMap(e.Headers),
		Query:          encodeQueryMap(e.Query),
		Example:        e.Example,
		ProviderStates: e.ProviderStates,
	}
	if e.Request != nil {
		rs, err := encodeNode(e.Request.Schema)
		if err != nil {
			return nil, fmt.Errorf("codec: request of %s: %w", e.Label(), err)
		}
		ed.Request = &requestDoc{
			ContentType: e.Request.ContentType,
			Required:    e.Request.Required,
			Schema:      rs,
			Headers:     encodeHeaderMap(e.Request.Headers),
			Only:        e.Request.Only,
			Strict:      e.Request.Strict,
		}
	}
	for _, r := range e.Responses {
		rs, err := encodeNode(r.Schema)
		if err != nil {
			return nil, fmt.Errorf("codec: response %d of %s: %w", r.Status, e.Label(), err)
		}
		ed.Responses = append(ed.Responses, responseDoc{
			Status:      r.Status,
			ContentType: r.ContentType,
			Schema:      rs,
			Headers:     encodeHeaderMap(r.Headers),
		})
	}
	return ed, nil
}

func encodeHeaderMap(m map[string]contract.HeaderExpectation) map[string]expectDoc {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]expectDoc, len(m))
	for name, h := range m {
		out[name] = expectDoc{Required: h.Required, Pattern: h.Pattern}
	}
	return out
}

func encodeQueryMap(m map[string]contract.QueryExpectation) map[string]expectDoc {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]expectDoc, len(m))
	for name, q := range m {
		out[name] = expectDoc{Required: q.Required, Pattern: q.Pattern}
	}
	return out
}

func encodeNode(n *schema.Node) (*nodeDoc, error) {
	if n == nil {
		return nil, nil
	}
	doc := &nodeDoc{
		Kind:     n.Kind.String(),
		Name:     n.Name,
		Nullable: n.Nullable,
		Format:   n.Format,
	}
	switch n.Kind {
	case schema.KindObject:
		if len(n.Properties) > 0 {
			doc.Properties = make(map[string]propertyDoc, len(n.Properties))
			for name, p := range n.Properties {
				ps, err := encodeNode(p.Node)
				if err != nil {
					return nil, err
				}
				doc.Properties[name] = propertyDoc{Schema: ps, Required: p.Required}
			}
		}
		allow := n.AllowAdditional
		doc.AllowAdditional = &allow
	case schema.KindArray:
		item, err := encodeNode(n.Item)
		if err != nil {
			return nil, err
		}
		doc.Item = item
	case schema.KindMatcher:
		if n.Matcher == nil {
			return nil, fmt.Errorf("matcher node without matcher")
		}
		doc.Matcher = n.Matcher.MatcherName()
	case schema.KindVariant:
		doc.Discriminator = n.Discriminator
		if len(n.Mapping) > 0 {
			doc.Mapping = make(map[string]*nodeDoc, len(n.Mapping))
			for tag, branch := range n.Mapping {
				bd, err := encodeNode(branch)
				if err != nil {
					return nil, err
				}
				doc.Mapping[tag] = bd
			}
		}
		for _, branch := range n.Branches {
			bd, err := encodeNode(branch)
			if err != nil {
				return nil, err
			}
			doc.Branches = append(doc.Branches, bd)
		}
	}
	return doc, nil
}

// ---- decoding ----

func decodeSnapshot(doc *snapshotDoc, opt DecodeOpt) (*contract.Snapshot, error) {
	eps := make([]*contract.EndpointContract, 0, len(doc.Endpoints))
	for i := range doc.Endpoints {
		e, err := decodeEndpoint(&doc.Endpoints[i], opt)
		if err != nil {
			return nil, err
		}
		eps = append(eps, e)
	}
	return contract.NewSnapshot(doc.Name, eps...), nil
}

func decodeEndpoint(ed *endpointDoc, opt DecodeOpt) (*contract.EndpointContract, error) {
	tp, err := contract.CompilePath(ed.Path)
	if err != nil {
		return nil, fmt.Errorf("codec: endpoint %s %s: %w", ed.Method, ed.Path, err)
	}
	e := &contract.EndpointContract{
		Method:         ed.Method,
		Path:           tp,
		Headers:        decodeHeaderMap(ed.Headers),
		Query:          decodeQueryMap(ed.Query),
		Example:        ed.Example,
		ProviderStates: ed.ProviderStates,
	}
	if ed.Request != nil {
		rs, err := decodeNode(ed.Request.Schema, opt)
		if err != nil {
			return nil, fmt.Errorf("codec: request of %s %s: %w", ed.Method, ed.Path, err)
		}
		e.Request = &contract.RequestExpectation{
			ContentType: ed.Request.ContentType,
			Required:    ed.Request.Required,
			Schema:      rs,
			Headers:     decodeHeaderMap(ed.Request.Headers),
			Only:        ed.Request.Only,
			Strict:      ed.Request.Strict,
		}
	}
	for _, rd := range ed.Responses {
		rs, err := decodeNode(rd.Schema, opt)
		if err != nil {
			return nil, fmt.Errorf("codec: response %d of %s %s: %w", rd.Status, ed.Method, ed.Path, err)
		}
		e.Responses = append(e.Responses, contract.ResponseExpectation{
			Status:      rd.Status,
			ContentType: rd.ContentType,
			Schema:      rs,
			Headers:     decodeHeaderMap(rd.Headers),
		})
	}
	return e, nil
}

func decodeHeaderMap(m map[string]expectDoc) map[string]contract.HeaderExpectation {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]contract.HeaderExpectation, len(m))
	for name, d := range m {
		out[name] = contract.HeaderExpectation{Required: d.Required, Pattern: d.Pattern}
	}
	return out
}

func decodeQueryMap(m map[string]expectDoc) map[string]contract.QueryExpectation {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]contract.QueryExpectation, len(m))
	for name, d := range m {
		out[name] = contract.QueryExpectation{Required: d.Required, Pattern: d.Pattern}
	}
	return out
}

func decodeNode(doc *nodeDoc, opt DecodeOpt) (*schema.Node, error) {
	if doc == nil {
		return nil, nil
	}
	var n *schema.Node
	switch doc.Kind {
	case "object":
		props := make(map[string]schema.Property, len(doc.Properties))
		for name, pd := range doc.Properties {
			pn, err := decodeNode(pd.Schema, opt)
			if err != nil {
				return nil, err
			}
			props[name] = schema.Property{Node: pn, Required: pd.Required}
		}
		if doc.AllowAdditional != nil && !*doc.AllowAdditional {
			n = schema.ClosedObject(props)
		} else {
			n = schema.Object(props)
		}
	case "array":
		item, err := decodeNode(doc.Item, opt)
		if err != nil {
			return nil, err
		}
		n = schema.Array(item)
	case "string":
		n = schema.String()
	case "integer":
		n = schema.Integer()
	case "number":
		n = schema.Number()
	case "boolean":
		n = schema.Boolean()
	case "matcher":
		m, ok := opt.Matchers[doc.Matcher]
		if !ok {
			return nil, fmt.Errorf("unknown matcher %q; supply it via DecodeOpt.Matchers", doc.Matcher)
		}
		n = schema.Match(m)
	case "variant":
		if doc.Discriminator != "" {
			mapping := make(map[string]*schema.Node, len(doc.Mapping))
			for tag, bd := range doc.Mapping {
				branch, err := decodeNode(bd, opt)
				if err != nil {
					return nil, err
				}
				mapping[tag] = branch
			}
			n = schema.DiscriminatedUnion(doc.Discriminator, mapping)
		} else {
			branches := make([]*schema.Node, 0, len(doc.Branches))
			for _, bd := range doc.Branches {
				branch, err := decodeNode(bd, opt)
				if err != nil {
					return nil, err
				}
				branches = append(branches, branch)
			}
			n = schema.Union(branches...)
		}
	default:
		return nil, fmt.Errorf("unknown schema kind %q", doc.Kind)
	}
	if doc.Nullable {
		n.AsNullable()
	}
	if doc.Format != "" {
		n.WithFormat(doc.Format)
	}
	if doc.Name != "" {
		n.Named(doc.Name)
	}
	return n, nil
}
