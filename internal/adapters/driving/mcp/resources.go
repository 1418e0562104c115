package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for shopquery resources.
const uriScheme = "shopquery://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "session/transcript",
		Name:        "session-transcript",
		Description: "The current chat session transcript, oldest first",
		MIMEType:    "application/json",
	}, s.handleTranscriptResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Current search and assistant settings (secrets omitted)",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)
}

// handleTranscriptResource returns the active session's conversation.
func (s *Server) handleTranscriptResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type turnInfo struct {
		Role    string `json:"role"`
		Content string `json:"content"`
		Seq     int    `json:"seq"`
	}

	infos := []turnInfo{}
	if s.ports.Chat != nil {
		for _, turn := range s.ports.Chat.History() {
			infos = append(infos, turnInfo{
				Role:    turn.Role.String(),
				Content: turn.Content,
				Seq:     turn.Seq,
			})
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling transcript: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleSettingsResource returns the non-secret application settings.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Settings == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("getting settings: %w", err)
	}

	// Secrets never leave the process via MCP.
	type settingsInfo struct {
		SearchMode   string `json:"search_mode"`
		TopK         int    `json:"top_k"`
		RankConstant int    `json:"rrf_rank_constant"`
		Index        string `json:"index"`
		InferenceID  string `json:"inference_id"`
		LLMProvider  string `json:"llm_provider,omitempty"`
		LLMModel     string `json:"llm_model,omitempty"`
	}

	info := settingsInfo{
		SearchMode:   settings.Search.Mode.String(),
		TopK:         settings.Search.TopK,
		RankConstant: settings.Search.RankConstant,
		Index:        settings.Elasticsearch.Index,
		InferenceID:  settings.Elasticsearch.InferenceID,
		LLMProvider:  settings.LLM.Provider.String(),
		LLMModel:     settings.LLM.Model,
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling settings: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
