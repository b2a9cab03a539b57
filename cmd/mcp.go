package cmd

import (
	"github.com/huangsam/deviceinfo/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start the deviceinfo MCP server",
	Long:    `Launch an MCP server on stdio that lets AI agents read and increment counters and inspect device metadata.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg)
	},
}
