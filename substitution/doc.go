// Package substitution holds the 256-entry byte substitution table and its
// file format.
//
// A table file has one mapping per line:
//
//	0x41->0x5A
//	# comments and blank lines are skipped
//
// Every byte not named in the file maps to itself.
package substitution
