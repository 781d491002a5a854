package cmd

import (
	"context"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Skillspot MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents query the labor market through standard tools.

When --nats-url is set, the server also clears its result cache on dataset reload events.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if cfg.NATSURL != "" {
			ctx, cancel := context.WithCancel(rootCtx)
			defer cancel()
			go func() {
				if err := watchReloads(ctx, nil); err != nil {
					contract.LogWarn("Reload watcher stopped", err)
				}
			}()
		}
		return mcp.StartMCPServer(rootCtx, cfg, engine)
	},
}
