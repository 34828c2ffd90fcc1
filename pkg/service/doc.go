// Package service provides the client and server session layer.
//
// A Client turns Go method calls into encoded request documents, pushes
// them through a Transport, and decodes the response. A Server takes
// encoded request bytes, dispatches them against a dispatch.Table, and
// returns encoded response bytes that are always a well-formed document,
// even when the request itself was garbage.
//
// The Transport interface is deliberately small: anything that can carry
// request bytes to a peer and return response bytes can serve, whether
// HTTP, a pipe, or an in-process loopback. The transport package provides
// an HTTP implementation.
//
// Two call forms are offered. Call collapses faults into the error return,
// which suits callers that treat remote faults like any other failure.
// Call2 hands back the decoded response so callers can distinguish a
// fault answer (protocol data) from a local or transport error.
package service
