// Package diag defines the diagnostic model shared by all compiler phases.
//
// Producers (lexer, parser, driver) emit through a Reporter. BagReporter
// collects into a Bag, which sorts and deduplicates for stable output.
// Rendering lives in internal/diagfmt.
//
// The resolver and the code generator stop at their first fault. The driver
// turns that fault into exactly one SevError diagnostic in the SEM or GEN
// range, so every phase reaches the user through the same Bag.
package diag
