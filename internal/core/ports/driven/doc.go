// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - StructureParser / ParserRegistry: Structure file parsing
//   - StructureFinder: Structure file discovery
//   - AtomStore: Binary atom file persistence
//   - StructureCatalog: Build run and structure status persistence (SQLite)
//   - DatabaseFactory: Opens the stores of one database directory
//   - SequenceWriter: FASTA output for the search tool
//   - ManifestStore: Build manifest persistence
//   - SearchTool: External sequence search (MMseqs2)
//   - HitReader / HitWriter: Tabular alignment files
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or parser package
package driven
