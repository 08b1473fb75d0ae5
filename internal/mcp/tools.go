package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nimamura/fencing-drill/internal/generator"
	"github.com/nimamura/fencing-drill/internal/session"
)

// --- Tool definitions ---

var toolListCommands = mcp.NewTool("list_commands",
	mcp.WithDescription("List fencing drill commands with French call, Japanese translation, and audio reference. Optionally filter by difficulty tier and weapon."),
	mcp.WithString("tier", mcp.Description("Difficulty tier filter. Defaults to the full catalog."), mcp.Enum("beginner", "intermediate", "advanced")),
	mcp.WithString("weapon", mcp.Description("Weapon filter. Applies exclusions and weapon-specific additions."), mcp.Enum("foil", "epee", "sabre")),
)

var toolListPatterns = mcp.NewTool("list_patterns",
	mcp.WithDescription("List the predefined footwork combination patterns with their command sequences."),
)

var toolListWeapons = mcp.NewTool("list_weapons",
	mcp.WithDescription("List weapon profiles with tempo multipliers and catalog adjustments."),
)

var toolStartSession = mcp.NewTool("start_session",
	mcp.WithDescription("Start a drill session. The session begins emitting commands immediately; connect to the SSE endpoint /api/v1/sessions/{id}/events to follow along. Unset parameters fall back to documented defaults."),
	mcp.WithString("mode", mcp.Required(), mcp.Description("Drill mode"), mcp.Enum("basic", "combination", "random", "interval")),
	mcp.WithString("command_id", mcp.Description("Command to repeat (basic mode). Defaults to 'marche'.")),
	mcp.WithString("pattern_id", mcp.Description("Pattern to cycle (combination mode). Defaults to 'A'."), mcp.Enum("A", "B", "C")),
	mcp.WithNumber("repetitions", mcp.Description("Repetition count (basic/combination). Defaults to 10.")),
	mcp.WithNumber("tempo_bpm", mcp.Description("Tempo in beats per minute (basic/combination/interval). Defaults to 60.")),
	mcp.WithString("weapon", mcp.Description("Weapon profile. Defaults to 'foil'."), mcp.Enum("foil", "epee", "sabre")),
	mcp.WithString("command_set", mcp.Description("Tier drawn from in random mode. Defaults to 'beginner'."), mcp.Enum("beginner", "intermediate", "advanced")),
	mcp.WithNumber("duration_seconds", mcp.Description("Total duration in random mode. Defaults to 60.")),
	mcp.WithNumber("min_interval_ms", mcp.Description("Minimum gap between commands in random mode. Defaults to 1000.")),
	mcp.WithNumber("max_interval_ms", mcp.Description("Maximum gap between commands in random mode. Defaults to 3000.")),
	mcp.WithNumber("work_seconds", mcp.Description("Work phase length in interval mode. Defaults to 30.")),
	mcp.WithNumber("rest_seconds", mcp.Description("Rest phase length in interval mode. Zero means no rest.")),
	mcp.WithNumber("sets", mcp.Description("Number of work sets in interval mode. Defaults to 5.")),
)

var toolGetSession = mcp.NewTool("get_session",
	mcp.WithDescription("Get the current state of a drill session: lifecycle state, command sequence position, and piste drift."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID returned by start_session")),
)

var toolStopSession = mcp.NewTool("stop_session",
	mcp.WithDescription("Stop a running or paused drill session."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID returned by start_session")),
)

// --- Tool handlers ---

func (h *handlers) listCommands(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tier := req.GetString("tier", "")
	weapon := req.GetString("weapon", "")

	commands, err := h.ds.ListCommands(ctx, tier, weapon)
	if err != nil {
		return mcp.NewToolResultError("list commands failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(commands)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listPatterns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	patterns, err := h.ds.ListPatterns(ctx)
	if err != nil {
		return mcp.NewToolResultError("list patterns failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(patterns)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listWeapons(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weapons, err := h.ds.ListWeapons(ctx)
	if err != nil {
		return mcp.NewToolResultError("list weapons failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(weapons)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) startSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode, err := req.RequireString("mode")
	if err != nil {
		return mcp.NewToolResultError("mode parameter is required"), nil
	}

	start := generator.Request{
		Mode:            mode,
		CommandID:       req.GetString("command_id", ""),
		PatternID:       req.GetString("pattern_id", ""),
		Repetitions:     req.GetInt("repetitions", 0),
		TempoBPM:        req.GetInt("tempo_bpm", 0),
		Weapon:          req.GetString("weapon", ""),
		CommandSet:      req.GetString("command_set", ""),
		DurationSeconds: req.GetInt("duration_seconds", 0),
		MinIntervalMs:   req.GetInt("min_interval_ms", 0),
		MaxIntervalMs:   req.GetInt("max_interval_ms", 0),
		WorkSeconds:     req.GetInt("work_seconds", 0),
		RestSeconds:     req.GetInt("rest_seconds", 0),
		Sets:            req.GetInt("sets", 0),
	}

	snap, err := h.ds.StartSession(ctx, start)
	if err != nil {
		h.log.Error("mcp start_session", "error", err)
		return mcp.NewToolResultError("start session failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(snap)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}

	snap, err := h.ds.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return mcp.NewToolResultError("session not found: " + id), nil
		}
		return mcp.NewToolResultError("get session failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(snap)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) stopSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}

	if err := h.ds.StopSession(ctx, id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return mcp.NewToolResultError("session not found: " + id), nil
		}
		return mcp.NewToolResultError("stop session failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]string{"status": "stopped", "session_id": id})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
