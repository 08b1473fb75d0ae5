package mcp

import (
	"context"

	"github.com/nimamura/fencing-drill/internal/drill"
	"github.com/nimamura/fencing-drill/internal/generator"
	"github.com/nimamura/fencing-drill/internal/session"
)

// CommandInfo is the catalog entry shape shared with the REST API.
type CommandInfo struct {
	ID             string   `json:"id"`
	French         string   `json:"fr"`
	Japanese       string   `json:"jp"`
	Weight         string   `json:"weight"`
	WeaponSpecific bool     `json:"weapon_specific,omitempty"`
	Weapons        []string `json:"weapons,omitempty"`
	Audio          string   `json:"audio"`
}

// DataSource abstracts the session engine for MCP tools. Both *Local
// (in-process registry) and HTTPClient (remote via REST API) satisfy
// this interface.
type DataSource interface {
	ListCommands(ctx context.Context, tier, weapon string) ([]CommandInfo, error)
	ListPatterns(ctx context.Context) ([]drill.Pattern, error)
	ListWeapons(ctx context.Context) ([]drill.WeaponProfile, error)
	StartSession(ctx context.Context, req generator.Request) (*session.Snapshot, error)
	GetSession(ctx context.Context, id string) (*session.Snapshot, error)
	StopSession(ctx context.Context, id string) error
}

// Compile-time checks.
var (
	_ DataSource = (*Local)(nil)
	_ DataSource = (*HTTPClient)(nil)
)
