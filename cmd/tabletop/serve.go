package main

import (
	"context"

	"github.com/spf13/cobra"

	"tabletop/internal/mcp"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	sess, db, err := openSession(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	server := mcp.NewServer(sess, log, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
