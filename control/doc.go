// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics, configuration and debug introspection for the send path.
//
// Provides concurrent-safe primitives including:
//   - Named lock-free counters with snapshot export
//   - Validated tunables for the completion machinery
//   - Probe registration for state dumps
package control
