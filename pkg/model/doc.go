// Package model defines the normalized field-configuration tree the binding
// engine consumes. Callers describe fields declaratively (Field), the engine
// works against the normalized form (FieldConfig/FieldTree) where every
// constraint attribute has been coerced to its comparison-ready
// representation. Malformed configurations are rejected during
// normalization so interaction-time code never sees them.
package model
