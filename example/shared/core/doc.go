// Package core holds the circulation domain values shared by the example
// application's features: copies, loans, reservations, and their status
// vocabularies. All records reference the inventory package's identifier
// and date types so the engine's decisions and the application's commits
// speak the same language.
package core
