// Package driving defines the operations structdb exposes to its front ends:
// the cobra CLI and the MCP server. Implementations live in
// internal/core/services.
package driving
