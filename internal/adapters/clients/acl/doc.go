// Package acl is the anti-corruption layer between the dispatcher and remote
// invocation services.
//
// Remote services speak HTTP: an action is a POST to
// /api/v1/actions/{action} with a {"params": {...}} body, the propagation
// meta travels as headers, and failures come back as an error envelope with
// a code. Nothing in that wire format leaks past this package. Every failure
// is translated to a domain error, so a caller cannot tell a remote
// NotFound from a local one.
//
// # Package Components
//
//   - [BaseAdapter]: one downstream service bound to its instrumented client
//   - [RemoteService]: routes an action to the adapter that owns it
//   - [MapHTTPError]: response and transport errors to domain errors
//   - [MapExternalCode]: remote error codes to domain errors
//   - [DecodeResponse]: generic JSON response decoder
//
// # Error Handling Strategy
//
// Recognized error codes win over status codes:
//   - NOT_FOUND → [domain.ErrNotFound]
//   - LOOP_DETECTED → [domain.ErrCallDepthExceeded] rebuilt from details
//   - INVALID_ARGUMENT → [domain.ErrInvalidArgument]
//   - VALIDATION_ERROR → [domain.ErrValidation]
//   - SERVICE_UNAVAILABLE → [domain.ErrUnavailable]
//
// Without a known code the status decides (404, 508, 409, 400/422, 401/403,
// 5xx). Client-level errors ([clients.ErrCircuitOpen],
// [clients.ErrMaxRetriesExceeded], [clients.ErrRequestFailed], deadlines) map
// to [domain.ErrUnavailable].
package acl
