// Package config provides environment-based configuration and PostgreSQL
// connection helpers for the example circulation service.
//
// Factory functions are provided for all supported PostgreSQL drivers
// (pgxpool.Pool, sql.DB, sqlx.DB) with connection pool tuning applied.
package config
