// Package codegen turns extracted operations and generated type fragments into
// TypeScript client source.
//
// The package has four parts:
//
//   - Substitute and SubstituteChained fill {@name@} placeholders in templates.
//   - TypeIndex looks up the type fragments of an operation by the
//     "#/paths/{operationId}/{kind}" schema reference convention.
//   - Renderer.OperationMethods and Renderer.PathsDictionary render typed
//     method signatures with their doc comments.
//   - Renderer.ClientMethods renders one runtime method stub per path (or per
//     operation) from a method template.
//
// Everything here works on in-memory values. Loading documents, producing the
// type fragments and writing files belong to the spec, typegen and emitter
// packages.
//
// # Fallbacks
//
// Lookups that miss degrade instead of failing: an operation without
// parameter fragments is typed with UnknownParamsObject, a missing request
// body or response becomes any, and unknown server labels leave their slot
// empty. Options turns each of these into an error when a caller wants
// strictness.
//
// # Substitution
//
// Substitute scans the template once and never rescans inserted text, so a
// replacement value that looks like another placeholder is kept verbatim.
// SubstituteChained applies keys one after another on the previous output,
// which lets a value expand a placeholder handled later. Keys are regular
// expressions in both cases; use Placeholder to build an escaped key.
package codegen
