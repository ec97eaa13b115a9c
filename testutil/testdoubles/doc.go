// Package testdoubles provides in-memory fakes and spies for testing the
// inventory engine and the circulation command handlers without a database.
package testdoubles
