package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
)

// defaultSearchLimit bounds tool results when the caller omits a limit.
const defaultSearchLimit = 10

// SearchInput is the input schema for the search_products tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the product search query"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Mode  string `json:"mode,omitempty" jsonschema:"retrieval mode: lexical, semantic or hybrid (default from settings)"`
}

// SearchOutput is the output schema for the search_products tool.
type SearchOutput struct {
	Results []ProductResult `json:"results"`
	Count   int             `json:"count"`
}

// ProductResult represents a single product hit.
type ProductResult struct {
	ProductID    string   `json:"product_id"`
	Name         string   `json:"name"`
	Category     string   `json:"category,omitempty"`
	Price        float64  `json:"price"`
	Description  string   `json:"description,omitempty"`
	Features     []string `json:"features,omitempty"`
	Rating       float64  `json:"rating,omitempty"`
	Score        float64  `json:"score"`
	LexicalRank  int      `json:"lexical_rank,omitempty"`
	SemanticRank int      `json:"semantic_rank,omitempty"`
}

// AskInput is the input schema for the ask_assistant tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"a natural-language question about the product catalogue"`
}

// AskOutput is the output schema for the ask_assistant tool.
type AskOutput struct {
	Answer   string   `json:"answer"`
	Grounded bool     `json:"grounded"`
	Sources  []string `json:"sources,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_products",
		Description: "Search the electronics product catalogue",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "ask_assistant",
		Description: "Ask the product assistant a question. " +
			"Answers are grounded on retrieved products only.",
	}, s.handleAsk)
}

// handleSearch handles the search_products tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	opts := domain.SearchOptions{Limit: limit}
	if input.Mode != "" {
		opts.Mode = domain.SearchMode(input.Mode)
	}

	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]ProductResult, len(results)),
		Count:   len(results),
	}

	for i := range results {
		product := &results[i].Product
		output.Results[i] = ProductResult{
			ProductID:    product.ID,
			Name:         product.Name,
			Category:     product.Category,
			Price:        product.Price,
			Description:  product.Description,
			Features:     product.Features,
			Score:        results[i].Score,
			LexicalRank:  results[i].LexicalRank,
			SemanticRank: results[i].SemanticRank,
		}
		if product.Reviews != nil {
			output.Results[i].Rating = product.Reviews.Rating
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask_assistant tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if s.ports.Chat == nil {
		return nil, AskOutput{}, ErrAssistantUnavailable
	}

	answer, err := s.ports.Chat.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:   answer.Text,
		Grounded: answer.Grounded,
	}
	for i := range answer.Sources {
		output.Sources = append(output.Sources, answer.Sources[i].Product.Name)
	}

	return nil, output, nil
}
