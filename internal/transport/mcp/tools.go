package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/usecase/rag"
)

// notReadyAnswer is returned as a normal tool result rather than a protocol
// error: callers see an explanation, not a failure.
const notReadyAnswer = "The document index is not ready yet. " +
	"Check rag_status and retry once the index reports ready."

// SearchInput is the input schema for the rag_search tool.
type SearchInput struct {
	Query         string   `json:"query" jsonschema:"the question to answer from the indexed corpus"`
	TopK          int      `json:"top_k,omitempty" jsonschema:"number of documents to retrieve (default from config)"`
	FetchK        int      `json:"fetch_k,omitempty" jsonschema:"number of similarity candidates before diversity reranking"`
	Diversity     *float64 `json:"diversity,omitempty" jsonschema:"reranking balance between 0 (maximum spread) and 1 (pure similarity)"`
	ReturnSources bool     `json:"return_sources,omitempty" jsonschema:"include the source documents used for the answer"`
}

// SearchOutput is the output schema for the rag_search tool.
type SearchOutput struct {
	Answer  string         `json:"answer"`
	Sources []SourceOutput `json:"sources,omitempty"`
}

// SourceOutput identifies one source document used for an answer.
type SourceOutput struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// StatusInput is the (empty) input schema for the rag_status tool.
type StatusInput struct{}

// StatusOutput is the output schema for the rag_status tool.
type StatusOutput struct {
	State     string `json:"state"`
	Documents int    `json:"documents"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rag_search",
		Description: "Answer a question using the indexed document corpus",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rag_status",
		Description: "Report the state of the document index",
	}, s.handleStatus)
}

// handleSearch handles the rag_search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := rag.Options{
		TopK:          input.TopK,
		FetchK:        input.FetchK,
		Diversity:     input.Diversity,
		ReturnSources: input.ReturnSources,
	}

	result, err := s.rag.Answer(ctx, input.Query, opts)
	if err != nil {
		if errors.Is(err, domain.ErrNotReady) {
			return nil, SearchOutput{Answer: notReadyAnswer}, nil
		}
		s.logger.Error("Search tool failed", zap.Error(err))
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{Answer: result.Answer}
	for _, src := range result.Sources {
		output.Sources = append(output.Sources, SourceOutput{
			Title: src.Title(),
			URL:   src.Source(),
		})
	}

	return nil, output, nil
}

// handleStatus handles the rag_status tool invocation.
func (s *Server) handleStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	status := s.rag.Status()
	return nil, StatusOutput{
		State:     string(status.State),
		Documents: status.Documents,
	}, nil
}
