// Package mcp provides an MCP (Model Context Protocol) server adapter for structdb.
// It lets inference clients fetch contact maps, filtered alignment hits and
// catalog records from a built structure database.
package mcp

import "errors"

// ErrMissingContactMapService is returned when the contact map service is not provided.
var ErrMissingContactMapService = errors.New("mcp: contact map service is required")

// errNoDatabase is returned when a request names no database and no default is configured.
var errNoDatabase = errors.New("mcp: no database given and no default configured")
