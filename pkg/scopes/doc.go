// Package scopes provides composable scoped resources for building isolated,
// repeatable test environments.
//
// A Scope is a paired Enter/Exit unit of work: once Enter succeeds, Exit is
// guaranteed to restore whatever process-wide state the scope touched, on
// every path out of the protected body. Scopes compose structurally: higher
// scopes own their sub-scopes and enter them in a fixed order, exiting in
// reverse.
//
// Key components:
//   - VarPatch / ItemPatch: temporarily override a package variable or a
//     mapping entry (including the process environment), restoring the exact
//     prior state on exit -- including true absence of a key.
//   - TempDir: an auto-removed temporary directory.
//   - SearchPath: redirect executable lookup through a temporary directory.
//   - MockedProgram: synthesize a fake executable on the search path that
//     records whether it was invoked.
//   - CaptureOutput: redirect the process standard streams into per-scope
//     buffers.
//   - Retry: poll a timing-sensitive condition with bounded backoff.
//   - RunCLI: run an in-process entry point with redirected I/O and an
//     injected argument vector.
//
// All scopes mutate process-wide shared state (environment variables,
// standard streams, package variables), so tests using overlapping scopes
// from separate goroutines must serialize themselves.
package scopes
