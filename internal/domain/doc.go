// Package domain defines the core types for the nodecolor graph coloring system.
//
// This package contains the entities and value objects shared by the color
// resolution core, the codecs, the repository and the HTTP layer.
//
// # Core Types
//
// NodeTable is the ordered schema of a graph's node attributes. Each
// AttributeColumn is identified by its Index, which is the key under which a
// Node stores its raw value.
//
// Node represents a graph vertex with raw attribute values and an optional
// computed render color.
//
// Edge represents a connection between two nodes. Edges are carried through
// import, persistence and export but are never touched by coloring.
//
// Graph is the host-side node collection. It exposes the four capabilities the
// color core consumes: column lookup, node iteration, attribute reads and color
// writes.
//
// # Attribute Values
//
// Attribute storage is untyped (values arrive from YAML, JSON, CSV, DOT or
// SQLite). AttributeValue is the tagged form produced at that boundary by
// ValueOf, so that callers switch on a known Kind instead of doing runtime
// type assertions.
//
// # Colors
//
// RGB holds three channels normalized to [0.0, 1.0], the form expected by the
// rendering layer. Hex and RGB255 convert back to 8-bit forms for export.
//
// # Design Principles
//
// - No database or external dependencies beyond color math
// - Pure domain logic without infrastructure concerns
// - Raw attribute values are never rewritten by coloring
package domain
