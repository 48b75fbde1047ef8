package main

import (
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/aellingwood/excerpt/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run MCP server over stdio",
	Long:  "Start an MCP (Model Context Protocol) server over stdio, enabling AI clients to generate previews and quotes of posts and browse a post directory.",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	postsDir, _ := cmd.Flags().GetString("posts")
	if postsDir == "" {
		postsDir, err = os.Getwd()
		if err != nil {
			return err
		}
	}
	srv := mcpserver.New(cfg, postsDir, version, logger)
	return srv.Run(cmd.Context(), &mcp.StdioTransport{})
}

func init() {
	mcpCmd.Flags().String("posts", "", "post directory (default: current directory)")
	rootCmd.AddCommand(mcpCmd)
}
