// Package sqlite keeps the build catalog of a structure database in
// <output>/catalog.db, using the pure Go modernc.org/sqlite driver.
//
// Two tables are maintained:
//
//   - runs: one row per build run with its parameters and counts
//   - structures: the latest outcome of each structure id
//
// The schema is created by the numbered .up.sql files embedded from
// migrations/. Connections use WAL journaling with a busy timeout, so
// readers such as the MCP server can query while a build is writing.
package sqlite
