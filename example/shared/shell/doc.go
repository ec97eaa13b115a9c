// Package shell holds the example application's infrastructure around the
// inventory engine: the circulation stores that commit decisions, retry
// with exponential backoff for concurrent-modification conflicts, and the
// handler result values the features report.
package shell
