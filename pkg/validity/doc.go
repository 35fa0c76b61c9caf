// Package validity models the platform's per-control constraint-violation
// flags and synthesizes a single human-readable message per evaluation.
// Custom messages from the field configuration take precedence, then the
// platform's own default text, then a built-in catalog. Message resolution is
// first-match-wins over a fixed flag priority; violated constraints are never
// aggregated into one message.
package validity
