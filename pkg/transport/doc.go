// Package transport provides HTTP carriage for XML-RPC documents.
//
// HTTPTransport is the client side: it POSTs request documents with
// Content-Type text/xml and satisfies service.Transport. Handler is the
// server side: an http.Handler that feeds request bodies to a
// service.Server and writes the response document back.
//
// Both ends support HTTP Basic authentication. The server stores only
// bcrypt hashes of user passwords.
package transport
