package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"tabletop/internal/logger"
	"tabletop/internal/session"
)

// Server exposes a session as MCP tools.
type Server struct {
	session *session.Session
	log     logger.Logger
	mcp     *sdk.Server
}

func NewServer(sess *session.Session, log logger.Logger, version string) *Server {
	s := &Server{
		session: sess,
		log:     logger.With(log),
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "tabletop",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	s.log.Info("mcp server starting", "mode", s.session.Mode())
	return s.mcp.Run(ctx, transport)
}
