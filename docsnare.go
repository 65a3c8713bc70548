// Package docsnare discovers content URLs hidden behind dynamic, multi-level
// page structures (accordions, directory trees, paginated download pages) and
// resolves landing pages to the concrete downloadable resource, caching
// results to avoid redundant network work.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, badger/).
package docsnare
