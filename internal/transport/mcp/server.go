// Package mcp exposes the question-answering facade as MCP tools, over
// stdio or mounted into an HTTP router.
package mcp

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/usecase/rag"
	"github.com/kailas-cloud/ragdex/internal/version"
)

// Server is the MCP server for ragdex.
type Server struct {
	rag    *rag.Service
	server *mcp.Server
	logger *zap.Logger
}

// NewServer creates the MCP server and registers its tools.
func NewServer(ragService *rag.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	impl := &mcp.Implementation{
		Name:    "ragdex",
		Version: version.Version,
	}

	s := &Server{
		rag:    ragService,
		server: mcp.NewServer(impl, nil),
		logger: logger,
	}
	s.registerTools()

	return s
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns a streamable HTTP handler for mounting into a router.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}
