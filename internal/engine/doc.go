// Package engine implements the invocation engine of the bridge.
//
// The engine turns an InvocationRequest into an Outcome:
//
//  1. Resolve the callable by (namespace, method) - fresh on every call
//  2. Coerce each declared parameter from its string token
//  3. Invoke the callable with the coerced positional values
//  4. Normalize the result into Value, Void or Failure
//
// Every failure (resolution, coercion, a returned error or a panic inside
// the callable) is folded into a Failure outcome. Nothing escapes Invoke as
// a fault; the host process decides how to report it.
//
// Each outcome is stamped with an invocation ID (UUIDv7 by default) and a
// sequence number from the engine's logical Clock, so log lines and outputs
// of concurrent callers can be correlated.
//
// Thread-safety: Invoke runs entirely on the caller's goroutine and is safe
// for concurrent use.
package engine
