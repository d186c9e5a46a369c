// Package pimalign implements the core of a massively-parallel pairwise
// DNA sequence aligner: Needleman-Wunsch global alignment with affine
// gap penalties, computed over a fixed-width adaptive anti-diagonal
// band (Suzuki & Kasahara, bioRxiv 130633v2).
//
// The package is deliberately stateless and allocation-light per call:
// it is meant to be driven thousands of times per second from a tile
// worker pool (package tile) under batches produced by a host load
// balancer (package balancer). Out-of-core concerns — FASTA parsing,
// YAML configuration, CLI flags, result emission — live in the
// sibling fasta, config, api and cmd packages and never appear here.
package pimalign
