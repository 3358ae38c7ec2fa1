// Package domain holds the structdb entities and has no dependencies
// outside the standard library.
//
// The central types are:
//
//   - ParsedStructure: residue names, heavy-atom coordinates and residue
//     labels read from one PDB or mmCIF file
//   - ResidueGroupIndex: atom offsets where each residue starts
//   - ProcessingStatus: per-file outcome of a build (SUCCESS or FAIL:reason)
//   - BuildManifest, BuildRequest, BuildReport: inputs and results of a build
//   - AlignmentHit and HitThresholds: rows of the search tool's table and the
//     limits used to filter them
//   - DistanceMatrix and ContactMap: residue-by-residue geometry
//
// Every other internal package may import domain; domain imports none of them.
package domain
