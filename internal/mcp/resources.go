package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/matseq/internal/domain"
)

func (h *handlers) catalogue(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	movements, err := h.ds.ListMovements(ctx, domain.DifficultyAdvanced)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(movements)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) rules(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	rules, err := h.ds.ListRules(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(rules)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) positions(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(domain.Positions())
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
