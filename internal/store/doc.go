// Package store keeps the lineage record of every short in SQLite.
//
// Each Video row carries the base artifact a filter should start from
// alongside the current artifact, so lineage never has to be recovered from
// filename text alone. State and CanTransition encode the stage order
// created, trimmed, reformatted, filtered (repeatable), captioned (terminal).
package store
