package mcp

import (
	"context"
	"sort"

	"github.com/nimamura/fencing-drill/internal/drill"
	"github.com/nimamura/fencing-drill/internal/generator"
	"github.com/nimamura/fencing-drill/internal/session"
)

// Local implements DataSource against an in-process session registry.
// Used when the MCP server runs inside the main binary.
type Local struct {
	registry *session.Registry
}

// NewLocal creates a Local datasource backed by the given registry.
func NewLocal(registry *session.Registry) *Local {
	return &Local{registry: registry}
}

func (l *Local) ListCommands(_ context.Context, tier, weapon string) ([]CommandInfo, error) {
	ids, err := drill.CatalogIDs(tier, weapon)
	if err != nil {
		return nil, err
	}

	out := make([]CommandInfo, 0, len(ids))
	for _, id := range ids {
		cmd, ok := drill.Get(id)
		if !ok {
			continue
		}
		out = append(out, CommandInfo{
			ID:             cmd.ID,
			French:         cmd.French,
			Japanese:       cmd.Japanese,
			Weight:         string(cmd.Weight),
			WeaponSpecific: cmd.WeaponSpecific,
			Weapons:        cmd.Weapons,
			Audio:          cmd.AudioRef(),
		})
	}
	return out, nil
}

func (l *Local) ListPatterns(_ context.Context) ([]drill.Pattern, error) {
	out := make([]drill.Pattern, 0, len(drill.Patterns))
	for _, p := range drill.Patterns {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (l *Local) ListWeapons(_ context.Context) ([]drill.WeaponProfile, error) {
	out := make([]drill.WeaponProfile, 0, len(drill.WeaponProfiles))
	for _, p := range drill.WeaponProfiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weapon < out[j].Weapon })
	return out, nil
}

func (l *Local) StartSession(_ context.Context, req generator.Request) (*session.Snapshot, error) {
	req.ApplyDefaults()
	cfg, err := req.Config()
	if err != nil {
		return nil, err
	}

	sess, err := l.registry.Create(cfg)
	if err != nil {
		return nil, err
	}
	info := sess.Info()
	return &info, nil
}

func (l *Local) GetSession(_ context.Context, id string) (*session.Snapshot, error) {
	sess, ok := l.registry.Get(id)
	if !ok {
		return nil, session.ErrNotFound
	}
	info := sess.Info()
	return &info, nil
}

func (l *Local) StopSession(_ context.Context, id string) error {
	return l.registry.Stop(id)
}
