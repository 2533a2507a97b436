package diff

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/kontrakt-dev/kontrakt/contract"
	"github.com/kontrakt-dev/kontrakt/schema"
)

var paramToken = regexp.MustCompile(`\{[^}]*\}`)

// endpointKey identifies an endpoint across snapshots: method plus the path
// template with every parameter collapsed to one placeholder token, so
// renaming a path parameter is not an endpoint removal.
func endpointKey(e *contract.EndpointContract) string {
	return e.Method + " " + paramToken.ReplaceAllString(e.Path.Raw(), "{}")
}

// Compare diffs two snapshots and returns the classified change list:
// endpoint-level changes first, then per matched endpoint its response,
// request, and header changes. Nil snapshots are programmer misuse and panic.
func Compare(oldSnap, newSnap *contract.Snapshot) *ContractDiff {
	if oldSnap == nil || newSnap == nil {
		panic("diff: Compare called with nil snapshot")
	}
	oldEps := oldSnap.Endpoints()
	newEps := newSnap.Endpoints()

	newByKey := make(map[string]*contract.EndpointContract, len(newEps))
	for _, e := range newEps {
		if _, ok := newByKey[endpointKey(e)]; !ok {
			newByKey[endpointKey(e)] = e
		}
	}
	oldByKey := make(map[string]*contract.EndpointContract, len(oldEps))
	for _, e := range oldEps {
		if _, ok := oldByKey[endpointKey(e)]; !ok {
			oldByKey[endpointKey(e)] = e
		}
	}

	var changes []Change

	// endpoint-level changes first, old declaration order then new
	for _, e := range oldEps {
		if _, ok := newByKey[endpointKey(e)]; !ok {
			changes = append(changes, Change{
				Severity:    Breaking,
				Kind:        KindEndpointRemoved,
				Description: fmt.Sprintf("endpoint %s was removed", e.Label()),
				Method:      e.Method,
				Path:        e.Path.Raw(),
				Location:    "endpoint",
			})
		}
	}
	for _, e := range newEps {
		if _, ok := oldByKey[endpointKey(e)]; !ok {
			changes = append(changes, Change{
				Severity:    Info,
				Kind:        KindEndpointAdded,
				Description: fmt.Sprintf("endpoint %s was added", e.Label()),
				Method:      e.Method,
				Path:        e.Path.Raw(),
				Location:    "endpoint",
			})
		}
	}

	// per matched endpoint: response, request, header changes
	for _, oldEp := range oldEps {
		newEp, ok := newByKey[endpointKey(oldEp)]
		if !ok {
			continue
		}
		changes = append(changes, compareResponses(oldEp, newEp)...)
		changes = append(changes, compareRequestBody(oldEp, newEp)...)
		changes = append(changes, compareRequestHeaders(oldEp, newEp)...)
	}

	return &ContractDiff{changes: changes}
}

func compareResponses(oldEp, newEp *contract.EndpointContract) []Change {
	var changes []Change
	loc := locator{method: newEp.Method, path: newEp.Path.Raw(), location: "response"}

	for _, oldResp := range oldEp.Responses {
		newResp, ok := newEp.FindResponse(oldResp.Status)
		if !ok {
			sev := Warning
			if oldResp.Status >= 200 && oldResp.Status < 300 {
				sev = Breaking
			}
			changes = append(changes, loc.change(sev, KindStatusCodeRemoved,
				fmt.Sprintf("response %d of %s was removed", oldResp.Status, oldEp.Label()),
				statusField(oldResp.Status)))
			continue
		}
		changes = append(changes, compareResponseBody(oldEp, &oldResp, newResp, loc)...)
		changes = append(changes, compareResponseHeaders(oldEp, &oldResp, newResp)...)
	}
	for _, newResp := range newEp.Responses {
		if _, ok := oldEp.FindResponse(newResp.Status); !ok {
			changes = append(changes, loc.change(Info, KindStatusCodeAdded,
				fmt.Sprintf("response %d of %s was added", newResp.Status, newEp.Label()),
				statusField(newResp.Status)))
		}
	}
	return changes
}

func compareResponseBody(oldEp *contract.EndpointContract, oldResp, newResp *contract.ResponseExpectation, loc locator) []Change {
	field := statusField(oldResp.Status)
	switch {
	case oldResp.Schema == nil && newResp.Schema != nil:
		return []Change{loc.change(Info, KindResponseBodyAdded,
			fmt.Sprintf("response %d of %s gained a body schema", oldResp.Status, oldEp.Label()), field)}
	case oldResp.Schema != nil && newResp.Schema == nil:
		return []Change{loc.change(Warning, KindResponseBodyRemoved,
			fmt.Sprintf("response %d of %s lost its body schema", oldResp.Status, oldEp.Label()), field)}
	case oldResp.Schema != nil && newResp.Schema != nil:
		oldID, newID := schemaIdentity(oldResp.Schema), schemaIdentity(newResp.Schema)
		if oldID != newID {
			return []Change{loc.change(Breaking, KindResponseBodyChanged,
				fmt.Sprintf("response %d of %s changed its body schema from %s to %s",
					oldResp.Status, oldEp.Label(), oldID, newID), field)}
		}
	}
	return nil
}

func compareResponseHeaders(oldEp *contract.EndpointContract, oldResp, newResp *contract.ResponseExpectation) []Change {
	var changes []Change
	loc := locator{method: oldEp.Method, path: oldEp.Path.Raw(), location: "header"}
	// a provider adding a response header cannot break a passing consumer,
	// required or not; removal might
	for _, name := range sortedKeys(oldResp.Headers) {
		if _, ok := newResp.Headers[name]; !ok {
			changes = append(changes, loc.change(Warning, KindResponseHeaderRemoved,
				fmt.Sprintf("response %d header %s of %s was removed", oldResp.Status, name, oldEp.Label()), name))
		}
	}
	for _, name := range sortedKeys(newResp.Headers) {
		if _, ok := oldResp.Headers[name]; !ok {
			changes = append(changes, loc.change(Info, KindResponseHeaderAdded,
				fmt.Sprintf("response %d header %s of %s was added", newResp.Status, name, oldEp.Label()), name))
		}
	}
	return changes
}

func compareRequestBody(oldEp, newEp *contract.EndpointContract) []Change {
	loc := locator{method: newEp.Method, path: newEp.Path.Raw(), location: "request"}
	oldReq, newReq := oldEp.Request, newEp.Request
	switch {
	case oldReq == nil && newReq == nil:
		return nil
	case oldReq == nil:
		if newReq.Required {
			return []Change{loc.change(Breaking, KindRequestBodyAdded,
				fmt.Sprintf("%s now requires a request body", newEp.Label()), "")}
		}
		return []Change{loc.change(Info, KindRequestBodyAdded,
			fmt.Sprintf("%s gained an optional request body", newEp.Label()), "")}
	case newReq == nil:
		return []Change{loc.change(Info, KindRequestBodyRemoved,
			fmt.Sprintf("%s no longer declares a request body", newEp.Label()), "")}
	}

	var changes []Change
	if oldReq.Required && !newReq.Required {
		changes = append(changes, loc.change(Info, KindRequestBodyOptional,
			fmt.Sprintf("request body of %s became optional", newEp.Label()), ""))
	}
	if !oldReq.Required && newReq.Required {
		changes = append(changes, loc.change(Breaking, KindRequestBodyRequired,
			fmt.Sprintf("request body of %s became required", newEp.Label()), ""))
	}
	if oldReq.Schema != nil && newReq.Schema != nil {
		oldID, newID := schemaIdentity(oldReq.Schema), schemaIdentity(newReq.Schema)
		if oldID != newID {
			changes = append(changes, loc.change(Breaking, KindRequestBodyTypeChanged,
				fmt.Sprintf("request body of %s changed its declared type from %s to %s",
					newEp.Label(), oldID, newID), ""))
		}
	}
	return changes
}

func compareRequestHeaders(oldEp, newEp *contract.EndpointContract) []Change {
	var changes []Change
	loc := locator{method: newEp.Method, path: newEp.Path.Raw(), location: "header"}
	oldHeaders := oldEp.RequestHeaders()
	newHeaders := newEp.RequestHeaders()

	// relaxing a server-side requirement cannot break a consumer: removals
	// are informational whether the header was required or not
	for _, name := range sortedKeys(oldHeaders) {
		if _, ok := newHeaders[name]; !ok {
			changes = append(changes, loc.change(Info, KindRequestHeaderRemoved,
				fmt.Sprintf("request header %s of %s was removed", name, newEp.Label()), name))
		}
	}
	for _, name := range sortedKeys(newHeaders) {
		newH := newHeaders[name]
		oldH, existed := oldHeaders[name]
		if !existed {
			if newH.Required {
				changes = append(changes, loc.change(Breaking, KindRequestHeaderAdded,
					fmt.Sprintf("request header %s of %s is newly required", name, newEp.Label()), name))
			} else {
				changes = append(changes, loc.change(Info, KindRequestHeaderAdded,
					fmt.Sprintf("request header %s of %s was added as optional", name, newEp.Label()), name))
			}
			continue
		}
		if !oldH.Required && newH.Required {
			changes = append(changes, loc.change(Breaking, KindRequestHeaderRequired,
				fmt.Sprintf("request header %s of %s became required", name, newEp.Label()), name))
		}
	}
	return changes
}

// schemaIdentity renders the declared identity the diff compares: the schema
// name when the loader set one, the node kind otherwise.
func schemaIdentity(n *schema.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.Kind.String()
}

type locator struct {
	method   string
	path     string
	location string
}

func (l locator) change(sev Severity, kind, description, field string) Change {
	return Change{
		Severity:    sev,
		Kind:        kind,
		Description: description,
		Method:      l.method,
		Path:        l.path,
		Location:    l.location,
		Field:       field,
	}
}

func statusField(status int) string { return fmt.Sprintf("%d", status) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
