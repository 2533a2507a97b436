package contract

// Snapshot is an immutable named snapshot of expected endpoint behavior:
// an ordered list of endpoint contracts. Build it once at load time; it may
// then be read concurrently without synchronization.
type Snapshot struct {
	name      string
	endpoints []*EndpointContract
}

// NewSnapshot builds a snapshot owning a copy of the endpoint list. A nil
// endpoint is programmer misuse and panics.
func NewSnapshot(name string, endpoints ...*EndpointContract) *Snapshot {
	eps := make([]*EndpointContract, len(endpoints))
	for i, e := range endpoints {
		if e == nil {
			panic("contract: NewSnapshot called with nil endpoint")
		}
		eps[i] = e
	}
	return &Snapshot{name: name, endpoints: eps}
}

// Name returns the snapshot name.
func (s *Snapshot) Name() string { return s.name }

// Endpoints returns the endpoint contracts in declaration order as a fresh
// slice; the contracts themselves are shared and must not be mutated.
func (s *Snapshot) Endpoints() []*EndpointContract {
	out := make([]*EndpointContract, len(s.endpoints))
	copy(out, s.endpoints)
	return out
}

// FindEndpoint returns the first endpoint whose template matches the path and
// method, in declaration order. Overlapping templates are resolved by
// declaration order, not by specificity.
func (s *Snapshot) FindEndpoint(path, method string) (*EndpointContract, bool) {
	for _, e := range s.endpoints {
		if e.Matches(path, method) {
			return e, true
		}
	}
	return nil, false
}
