package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/matseq/internal/domain"
)

// splitList parses a comma-separated parameter into trimmed entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// --- Tool definitions ---

var toolGenerateSequence = mcp.NewTool("generate_sequence",
	mcp.WithDescription("Generate a mat class sequence for the given duration and difficulty. The sequence respects muscle-overlap and family-balance rules, favours movements the user has not done recently, and comes back with a quality report and transition narratives."),
	mcp.WithNumber("duration_minutes", mcp.Required(), mcp.Description("Target class duration in minutes (e.g. 30, 45, 60)")),
	mcp.WithString("difficulty", mcp.Required(), mcp.Description("Practitioner tier"), mcp.Enum("beginner", "intermediate", "advanced")),
	mcp.WithString("focus", mcp.Description("Comma-separated muscle groups to emphasise (e.g. 'abdominals, obliques')")),
	mcp.WithString("exclude", mcp.Description("Comma-separated movement IDs to leave out (e.g. injuries, equipment limits)")),
	mcp.WithBoolean("strict", mcp.Description("Restrict to movements of exactly the requested tier instead of up to it")),
)

var toolValidateSequence = mcp.NewTool("validate_sequence",
	mcp.WithDescription("Check a hand-built ordered movement list against the sequencing rules. Returns per-rule verdicts and an overall quality score."),
	mcp.WithString("movement_ids", mcp.Required(), mcp.Description("Comma-separated movement IDs in class order")),
	mcp.WithString("difficulty", mcp.Required(), mcp.Description("Practitioner tier the class is aimed at"), mcp.Enum("beginner", "intermediate", "advanced")),
	mcp.WithNumber("duration_minutes", mcp.Description("Intended class duration in minutes. Affects the repertoire coverage requirement.")),
)

var toolListMovements = mcp.NewTool("list_movements",
	mcp.WithDescription("List catalogue movements up to a difficulty tier, in canonical order."),
	mcp.WithString("difficulty", mcp.Description("Maximum tier to include. Defaults to advanced (the whole catalogue)."), mcp.Enum("beginner", "intermediate", "advanced")),
)

var toolGetMovement = mcp.NewTool("get_movement",
	mcp.WithDescription("Fetch a single movement by ID, including its muscle groups, family, position, and duration."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Movement ID (e.g. 'the-hundred')")),
)

var toolListRules = mcp.NewTool("list_rules",
	mcp.WithDescription("List the sequencing rules with their severities and thresholds."),
)

// --- Tool handlers ---

func (h *handlers) generateSequence(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	minutes, err := req.RequireFloat("duration_minutes")
	if err != nil {
		return mcp.NewToolResultError("duration_minutes parameter is required"), nil
	}
	diffStr, err := req.RequireString("difficulty")
	if err != nil {
		return mcp.NewToolResultError("difficulty parameter is required"), nil
	}
	difficulty, err := domain.ParseDifficulty(diffStr)
	if err != nil {
		return mcp.NewToolResultError("invalid difficulty: " + err.Error()), nil
	}

	genReq := domain.GenerateRequest{
		UserID:                UserIDFromContext(ctx),
		TargetDurationSeconds: int(minutes * 60),
		Difficulty:            difficulty,
		FocusGroups:           splitList(req.GetString("focus", "")),
		ExcludedMovementIDs:   splitList(req.GetString("exclude", "")),
		StrictTier:            req.GetBool("strict", false),
	}

	res, err := h.ds.Generate(ctx, genReq)
	if err != nil {
		h.log.Error("mcp generate_sequence", "error", err)
		return mcp.NewToolResultError("generation failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(res)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) validateSequence(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idsStr, err := req.RequireString("movement_ids")
	if err != nil {
		return mcp.NewToolResultError("movement_ids parameter is required"), nil
	}
	ids := splitList(idsStr)
	if len(ids) == 0 {
		return mcp.NewToolResultError("movement_ids must name at least one movement"), nil
	}
	diffStr, err := req.RequireString("difficulty")
	if err != nil {
		return mcp.NewToolResultError("difficulty parameter is required"), nil
	}
	difficulty, err := domain.ParseDifficulty(diffStr)
	if err != nil {
		return mcp.NewToolResultError("invalid difficulty: " + err.Error()), nil
	}

	targetSec := int(req.GetFloat("duration_minutes", 0) * 60)
	uid := UserIDFromContext(ctx)

	report, err := h.ds.Validate(ctx, uid, ids, difficulty, targetSec)
	if err != nil {
		h.log.Error("mcp validate_sequence", "error", err)
		return mcp.NewToolResultError("validation failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(report)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listMovements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tier := domain.DifficultyAdvanced
	if diffStr := req.GetString("difficulty", ""); diffStr != "" {
		parsed, err := domain.ParseDifficulty(diffStr)
		if err != nil {
			return mcp.NewToolResultError("invalid difficulty: " + err.Error()), nil
		}
		tier = parsed
	}

	movements, err := h.ds.ListMovements(ctx, tier)
	if err != nil {
		h.log.Error("mcp list_movements", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(movements)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getMovement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	m, err := h.ds.GetMovement(ctx, id)
	if err != nil {
		h.log.Error("mcp get_movement", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if m == nil {
		return mcp.NewToolResultError("no movement with id " + id), nil
	}

	result, err := mcp.NewToolResultJSON(m)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listRules(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rules, err := h.ds.ListRules(ctx)
	if err != nil {
		h.log.Error("mcp list_rules", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rules)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
