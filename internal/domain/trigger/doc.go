// Package trigger contains core domain types for the fire-trigger business logic.
//
// It defines Actor (who changed the state) and State (the fired status at a
// point in time) with Clone helpers to avoid leaking internal references.
package trigger
