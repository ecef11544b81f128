// Package colorize assigns render colors to graph nodes from a textual color
// attribute.
//
// A run has two steps. ResolveColorColumn picks the first node table column
// whose name contains "color" (case-insensitive, table order). The Applier
// then reads every node's raw value in that column, detects its format with
// DetectFormat, parses it with ParseColor and writes the normalized channels
// back through the GraphView.
//
// Two textual formats are understood:
//
//	"255,0,128"  comma-separated triplet, each field in [0,255]
//	"#FF0080"    hexadecimal #RRGGBB
//
// A triplet whose three fields are all written with a decimal point and are
// all at most 1.0 (for example "0.5,0.25,1.0") is taken as already normalized.
//
// Malformed values never abort a run halfway. Under PolicyIndependent (the
// default) every node is handled on its own and failures are collected in the
// Report. Under PolicyAtomic nothing is written unless every node parses.
//
// The package holds no state between runs and performs no I/O of its own.
package colorize
