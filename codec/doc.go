package codec

// Package codec serializes contract snapshots into a portable document form,
// in JSON and YAML, and reconstructs them. Release-gating tooling persists the
// previous snapshot between runs and feeds both sides into diff.Compare.
//
// Schema nodes are encoded kind-tagged. Matcher leaves are referenced by
// matcher name only; decoding resolves them against the matcher set supplied
// by the caller, so programmatic rules survive a round trip without the
// document format growing a rule language. Example payloads are carried
// verbatim; their concrete Go types after a round trip follow the document
// decoder, not the original value.
