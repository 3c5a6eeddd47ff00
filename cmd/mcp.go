package cmd

import (
	"github.com/huangsam/fleetrisk/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the fleetrisk MCP server",
	Long:  `Launch an MCP server that allows AI agents to score drivers and estimate fleet impact via standard tools.`,
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol, so setup only logs to stderr
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, recordReader)
	},
}
