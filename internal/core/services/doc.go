// Package services implements the core application services: batch
// extraction with per-file isolation, the linked-annotation view model,
// and mapping-state management.
//
// Services depend on domain types and driven ports only; adapters inject
// concrete stores.
package services
