// Package workflow coordinates the pipeline stages for one video lineage.
//
// The Manager owns the sqlite lineage record of every short: it stages a
// local source into temp/, extracts speech and motion signals, picks the
// highlight window, then runs trim and vertical reformat. Filters and
// captions are applied later against the recorded base and current
// artifacts. Every mutating operation holds the video's lineage lock for
// its whole duration and records the outcome (state, paths, last error) on
// the record before returning.
package workflow
