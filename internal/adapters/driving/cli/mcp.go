package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/structdb/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so inference clients can fetch
contact maps, filtered alignment hits and catalog records.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

With --database the server exposes that database as resources
(structdb://manifest, structdb://structures/{id}) and uses it
for tool calls that do not name a database.

Examples:
  # Stdio mode
  structdb mcp serve -d ./db

  # HTTP mode
  structdb mcp serve -d ./db --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringP("database", "d", "", "default database directory")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	database, err := cmd.Flags().GetString("database")
	if err != nil {
		return fmt.Errorf("getting database flag: %w", err)
	}

	ports, err := mcpPorts(database)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(ports, log)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}

// mcpPorts wires the configured services and the configured contact cutoff.
func mcpPorts(database string) (*mcp.Ports, error) {
	ports := &mcp.Ports{
		ContactMap: contactMapService,
		HitFilter:  hitFilterService,
		Catalog:    catalogService,
		Database:   database,
	}
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return nil, fmt.Errorf("failed to get settings: %w", err)
		}
		ports.Cutoff = settings.ContactMap.Cutoff
	}
	return ports, nil
}
