package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/nimamura/fencing-drill/internal/drill"
	"github.com/nimamura/fencing-drill/internal/generator"
	"github.com/nimamura/fencing-drill/internal/session"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  s.version,
		"sessions": s.registry.Len(),
	})
}

// commandView is the catalog representation of a command, including the
// audio asset reference.
type commandView struct {
	drill.Command
	Audio string `json:"audio"`
}

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	ids, err := drill.CatalogIDs(r.URL.Query().Get("tier"), r.URL.Query().Get("weapon"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	out := make([]commandView, 0, len(ids))
	for _, id := range ids {
		cmd, ok := drill.Get(id)
		if !ok {
			continue
		}
		out = append(out, commandView{Command: cmd, Audio: cmd.AudioRef()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	out := make([]drill.Pattern, 0, len(drill.Patterns))
	for _, p := range drill.Patterns {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleWeapons(w http.ResponseWriter, r *http.Request) {
	out := make([]drill.WeaponProfile, 0, len(drill.WeaponProfiles))
	for _, p := range drill.WeaponProfiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weapon < out[j].Weapon })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req generator.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	req.ApplyDefaults()

	cfg, err := req.Config()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sess, err := s.registry.Create(cfg)
	if err != nil {
		switch {
		case errors.Is(err, generator.ErrValidation):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, session.ErrSessionLimit):
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": err.Error()})
		default:
			s.log.Error("session create failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusCreated, sess.Info())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, sess.Info())
}

func (s *Server) handleStopSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.registry.Stop(id); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped", "session_id": id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
