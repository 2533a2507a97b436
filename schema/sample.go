package schema

import "sort"

// Sample produces a minimal representative JSON value for the node: one leaf
// value per scalar kind (format-aware), one element for arrays, and every
// declared property for objects. The generated value always validates against
// the node itself. A nil node is programmer misuse and panics.
func Sample(n *Node) any {
	if n == nil {
		panic("schema: Sample called with nil node")
	}
	switch n.Kind {
	case KindObject:
		out := make(map[string]any, len(n.Properties))
		for _, name := range n.sortedPropertyNames() {
			out[name] = Sample(n.Properties[name].Node)
		}
		return out
	case KindArray:
		return []any{Sample(n.Item)}
	case KindString:
		if s := formatSample(n.Format); s != "" {
			return s
		}
		return "string"
	case KindInteger:
		return int64(42)
	case KindNumber:
		return 12.5
	case KindBoolean:
		return true
	case KindMatcher:
		return n.Matcher.Sample()
	case KindVariant:
		return sampleVariant(n)
	}
	return nil
}

func sampleVariant(n *Node) any {
	if n.Discriminator == "" {
		if len(n.Branches) == 0 {
			return nil
		}
		return Sample(n.Branches[0])
	}
	keys := make([]string, 0, len(n.Mapping))
	for key := range n.Mapping {
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)
	tag := keys[0]
	v := Sample(n.Mapping[tag])
	// the discriminator property must carry the mapped tag or the sample
	// would not select its own branch
	if m, ok := v.(map[string]any); ok {
		m[n.Discriminator] = tag
		return m
	}
	return v
}
