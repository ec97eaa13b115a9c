// Package postgresengine provides a PostgreSQL implementation of the
// inventory.Repository interface.
//
// Queries are built with goqu and rendered to complete SQL strings, then
// executed through a database adapter so the repository works with
// pgxpool.Pool, sql.DB, and sqlx.DB connections alike.
//
// Usage:
//
//	pool, _ := pgxpool.New(context.Background(), dsn)
//	repo, _ := postgresengine.NewRepositoryFromPGXPool(pool)
//	engine, _ := inventory.NewEngine(repo)
package postgresengine
