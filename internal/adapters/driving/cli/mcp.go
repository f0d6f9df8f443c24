package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/throughnateseyes/playbook/internal/adapters/driving/mcp"
	"github.com/throughnateseyes/playbook/internal/connectors/filesystem"
	"github.com/throughnateseyes/playbook/internal/logger"
	"github.com/throughnateseyes/playbook/internal/normalisers/sop"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes the search_sops, get_sop and list_sops tools and the
playbook://sops resources.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Use --watch to import SOP files from a directory as they change.

Examples:
  # Stdio mode (default, for Claude Desktop)
  playbook mcp serve

  # HTTP mode with 20 requests per second
  playbook mcp serve --port 8080 --rate 20

  # Keep the collection in step with a folder of JSON files
  playbook mcp serve --watch ./sops

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "playbook": {
        "command": "/path/to/playbook",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().String("watch", "", "directory of SOP files to import on change")
	mcpServeCmd.Flags().Float64("rate", 0, "HTTP requests per second (0 = unlimited)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	watchDir, err := cmd.Flags().GetString("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}
	rps, err := cmd.Flags().GetFloat64("rate")
	if err != nil {
		return fmt.Errorf("getting rate flag: %w", err)
	}

	ports := &mcp.Ports{
		Search: searchService,
		SOP:    sopService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}
	server.SetRateLimit(rps, int(rps)+1)

	runCtx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, ctx := errgroup.WithContext(runCtx)

	if watchDir != "" {
		watcher, err := startWatch(ctx, watchDir)
		if err != nil {
			return err
		}
		defer watcher.Close()
		g.Go(func() error {
			return watcher.Sync(ctx, sopService)
		})
	}

	g.Go(func() error {
		// The watcher runs until the server stops.
		defer cancel()
		if port > 0 {
			addr := fmt.Sprintf(":%d", port)
			fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
			return server.RunHTTP(ctx, addr)
		}
		return server.Run(ctx)
	})

	return g.Wait()
}

// startWatch imports everything under dir once and returns a watcher ready
// to Sync further changes.
func startWatch(ctx context.Context, dir string) (*filesystem.Watcher, error) {
	if sopService == nil {
		return nil, errSOPServiceNotConfigured
	}

	loader := filesystem.NewLoader(dir, sop.New())
	result, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", dir, err)
	}
	n, err := sopService.Import(ctx, result.SOPs)
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", dir, err)
	}
	logger.Info("Imported %d SOPs from %d files in %s", n, result.Files, dir)

	return filesystem.NewWatcher(loader, filesystem.DefaultDebounce), nil
}
