// Package registry holds the immutable participant catalog for showrunner.
//
// A [Registry] is built once at startup, either from the built-in default
// catalog ([Default]) or from a YAML file ([Load]), and never changes
// afterwards. Every accessor returns copies, so callers can hold and modify
// participant values freely without affecting the catalog.
//
// # Participant Selection
//
// Discussion panels are assembled per pipeline phase:
//
//   - [Registry.Select] resolves explicit participant IDs and fails on any
//     unknown ID.
//   - [Registry.SelectByExpertise] matches glob patterns against expertise
//     tags ("creative-*" matches "creative-direction") and silently skips
//     patterns that do not compile.
//   - [Registry.ForPhase] applies mission overrides when present, falling
//     back to the phase's default expertise patterns.
//
// An empty selection is legal at this layer. The discussion engine is the
// component that rejects an empty panel, once a discussion actually starts.
package registry
