package contract

// Package contract holds the contract model: compiled path templates,
// endpoint contracts with request/response expectations, and immutable
// snapshots. It also provides the request/response checking helpers that
// verification orchestration and mock-server routing drive.
