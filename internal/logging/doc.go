// Package logging builds the slog loggers used across shortsmith.
//
// Two handlers are available: a console handler that promotes the component
// attribute to a message prefix and colours levels on interactive terminals,
// and a JSON handler with RFC3339 UTC timestamps for machine consumption.
// ContextFields lifts video, stage and correlation identifiers out of a
// context so every stage log line can be traced back to its lineage record.
package logging
