// Package postgres provides PostgreSQL implementations of the store
// interfaces. All implementations work against store.DBTX so they can run
// over a plain connection or inside a transaction.
package postgres
