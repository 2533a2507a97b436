package schema

import "sort"

// Kind enumerates the closed set of schema node kinds.
type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindString
	KindInteger
	KindNumber
	KindBoolean
	KindMatcher
	KindVariant
)

// String renders the kind the way violations and diffs report it.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindMatcher:
		return "matcher"
	case KindVariant:
		return "variant"
	}
	return "unknown"
}

// Property describes one declared object property.
type Property struct {
	Node     *Node
	Required bool
}

// Node is the closed tagged union describing an expected JSON shape. Exactly
// the fields belonging to Kind are populated; Nullable and Name apply to every
// kind. Nodes are immutable once handed to a validator and may be shared
// across goroutines.
type Node struct {
	Kind     Kind
	Nullable bool
	Name     string // Optional declared schema name from the upstream loader.

	// KindObject
	Properties      map[string]Property
	AllowAdditional bool

	// KindArray
	Item *Node

	// KindString, KindInteger, KindNumber, KindBoolean
	Format string

	// KindMatcher
	Matcher Matcher

	// KindVariant
	Branches      []*Node
	Discriminator string
	Mapping       map[string]*Node
}

// Object returns an object node with the given declared properties. Additional
// properties are allowed unless ClosedObject is used.
func Object(properties map[string]Property) *Node {
	return &Node{Kind: KindObject, Properties: properties, AllowAdditional: true}
}

// ClosedObject returns an object node that rejects undeclared properties when
// validating in strict mode.
func ClosedObject(properties map[string]Property) *Node {
	return &Node{Kind: KindObject, Properties: properties}
}

// Array returns an array node whose every element must satisfy item.
func Array(item *Node) *Node { return &Node{Kind: KindArray, Item: item} }

// String returns the minimal string node.
func String() *Node { return &Node{Kind: KindString} }

// Integer returns a node accepting whole numbers only.
func Integer() *Node { return &Node{Kind: KindInteger} }

// Number returns a node accepting any JSON number.
func Number() *Node { return &Node{Kind: KindNumber} }

// Boolean returns the minimal boolean node.
func Boolean() *Node { return &Node{Kind: KindBoolean} }

// Match returns a matcher leaf. The engine delegates the whole subtree to m
// and never recurses past it.
func Match(m Matcher) *Node { return &Node{Kind: KindMatcher, Matcher: m} }

// Union returns a variant node without a discriminator; branches are attempted
// in declaration order.
func Union(branches ...*Node) *Node { return &Node{Kind: KindVariant, Branches: branches} }

// DiscriminatedUnion returns a variant node selecting its branch by the value
// of the named property, looked up case-insensitively in mapping.
func DiscriminatedUnion(property string, mapping map[string]*Node) *Node {
	return &Node{Kind: KindVariant, Discriminator: property, Mapping: mapping}
}

// Required wraps a node as a required object property.
func Required(n *Node) Property { return Property{Node: n, Required: true} }

// Optional wraps a node as an optional object property.
func Optional(n *Node) Property { return Property{Node: n} }

// AsNullable marks the node as accepting JSON null and returns it for chaining.
func (n *Node) AsNullable() *Node { n.Nullable = true; return n }

// WithFormat sets the declared format of a scalar node and returns it for
// chaining. Unrecognized format values always pass validation.
func (n *Node) WithFormat(format string) *Node { n.Format = format; return n }

// Named records the declared schema name and returns the node for chaining.
// The diff engine compares names when both sides carry one.
func (n *Node) Named(name string) *Node { n.Name = name; return n }

// sortedPropertyNames returns declared property names in ascending order for
// deterministic violation ordering.
func (n *Node) sortedPropertyNames() []string {
	names := make([]string, 0, len(n.Properties))
	for name := range n.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
