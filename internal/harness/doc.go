// Package harness executes scenario files against the diff engine and
// captures the resulting mutation traces.
//
// A scenario is a YAML document describing a before-tree and an
// after-tree under a shared root. Running a scenario mounts the
// before-tree (no effect tracking), applies the after-tree as an update
// pass, and collects every parent's effect list in traversal order into
// a flat trace. The trace can be asserted against inline expectations,
// compared against a golden file (canonical JSON), or recorded into a
// trace.Store for later replay.
//
// Passes are identified by tokens from a TokenGenerator; production use
// gets time-sortable UUIDv7 tokens, tests use a fixed sequence for
// deterministic golden comparison.
package harness
