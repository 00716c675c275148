package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/dashlint/dashlint/internal/adapters/inbound/mcp"
)

func newMCPCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the dashlint MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(g))
	return cmd
}

func newMCPServeCmd(g *globals) *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start dashlint MCP server (stdio)",
		Long:  "Start the dashlint MCP server using stdio transport. This lets coding assistants check, score and fix the project and list its rules.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var a []string
			if projectPath != "" {
				a = []string{projectPath}
			}
			path, err := pathArg(a)
			if err != nil {
				return err
			}
			s := mcpadapter.NewDashlintMCPServer(path, NewCheckService(g.log()), version)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", "", "Project path (defaults to current working directory)")

	return cmd
}
