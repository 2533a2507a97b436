package kontrakt

// Package kontrakt provides:
//
// - Schema validation of HTTP payloads against declared contracts (schema/)
// - Path-template compilation, endpoint contracts, and snapshots (contract/)
// - Contract compatibility diffing with breaking-change classification (diff/)
// - A portable snapshot document codec in JSON and YAML (codec/)
//
// Design policy:
// - Keep the shared result vocabulary (Violation, ValidationResult) in the
//   root package; put the engines under focused subpackages.
// - Everything is data-first: validation and diffing return ordered lists and
//   never raise. The raise-on-failure wrappers (ValidationResult.Err,
//   ContractDiff.FailOnBreaking) are thin layers on top.
// - Inputs (schema trees, snapshots) are immutable after construction, so any
//   number of goroutines may validate and compare concurrently without
//   synchronization.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	res := schema.ValidateJSON(node, body, "GET /users/{id}")
//	if !res.Valid() { ... }
//
//	d := diff.Compare(oldSnap, newSnap)
//	if err := d.FailOnBreaking(); err != nil { ... }
