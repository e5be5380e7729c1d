// Package httpapi exposes the extraction engine and mapping state over a
// chi REST API. It is a thin driving adapter: every handler delegates to a
// core service and translates between JSON and domain types.
package httpapi
