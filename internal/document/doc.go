// Package document holds the in-memory tree of a block-structured input
// file: sections nesting sections and key = value fields, each remembering
// the file, line and column it came from.
//
// Input looks like:
//
//	[Mesh]
//	  dim = 2
//	  [gen]
//	    type = GeneratedMeshGenerator
//	  []
//	[]
//
// Parse produces the tree, Explode turns "a/b/c = 1" style names into nested
// sections, and Merge layers one tree on top of another (later input files
// and command-line overrides).
package document
