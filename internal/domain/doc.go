// Package domain defines the core business types for the ads monitor.
//
// Types in this package are pure value objects: no database dependencies,
// no HTTP concerns. They are the shared language between the loader, the
// enrichment pipeline, the recommendation engine, and the report writers.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - Constants and enums belong here
//   - Pure accessor methods are allowed
package domain
