// Package internal contains the core implementation packages for islet.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the dispatch functionality behind the islet CLI.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - registry: renderer registration with reserved-last finalized ordering
//   - resolver: per-render dispatch over tags, directives, and probes
//   - metadata: extraction of reserved client directives from prop bags
//   - pathfilter: include and exclude path matching for renderer scoping
//   - guard: suppression of known diagnostic noise during probing
//   - island: hydration island descriptors and custom element markup
//   - templrender: the built-in templ template renderer
//   - plugins: renderer integrations and config-declared registration
//   - config: configuration loading, defaults, and validation
//   - server: dev server with introspection, dry runs, and live reload
//   - watcher: configuration file monitoring with debouncing
//   - errors: structured error types shared across the dispatch core
//   - logging: structured component-scoped logging
//   - version: build-time version metadata
package internal
