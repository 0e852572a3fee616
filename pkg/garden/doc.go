// Package garden defines the domain core of the garden content-curation
// system: entities (Channel, Block, Connection), the tagged block-content
// variants, validation, repository ports, domain errors, and the Service
// that orchestrates cross-aggregate operations.
//
// Storage adapters live outside this package and plug in through the
// repository interfaces; see internal/sqlite for the SQLite adapter and
// MemoryStore in this package for the in-memory reference implementation.
package garden
