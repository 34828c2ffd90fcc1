// Package dispatch maps incoming XML-RPC method names to handlers.
//
// # Resolution policy
//
// A handler is reachable only if it was explicitly registered: either as
// a (name, Handler) pair via Register, or through RegisterReceiver with
// an allow-list naming the exact methods to expose. Registering a
// receiver never implicitly exposes its remaining method set; the
// allow-list is captured once at registration time and dispatch never
// looks at the receiver again. A remote caller therefore cannot invoke a
// capability the registrant did not enumerate.
//
// Re-registering a name replaces the existing entry. This is destructive
// by design; the previous handler is gone.
//
// # Reserved methods
//
// system.listMethods, system.methodSignature, system.methodHelp and
// system.multicall are answered by the table itself. Registering a user
// handler under the system. prefix is rejected with ErrReservedName.
// system.listMethods returns user registrations in registration order
// followed by the three introspection names; the order is stable.
//
// # Faults
//
// A handler reports an application fault by returning *wire.Fault as its
// error; the code and message pass through unchanged. Any other failure
// (unknown name, panic, plain error, signature mismatch) is synthesized
// with the reserved codes in package wire.
package dispatch
