package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nimamura/fencing-drill/internal/session"
)

// keepaliveInterval is how often an SSE comment is written to hold idle
// connections open through proxies.
const keepaliveInterval = 15 * time.Second

// handleSessionEvents is the SSE endpoint for a session's event stream.
// Reconnecting with a Last-Event-ID header (or last_seq query parameter)
// replays buffered events newer than that sequence and resumes a paused
// session. A transport disconnect pauses the session; it does not stop it.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming not supported"})
		return
	}

	lastSeq := lastSeenSequence(r)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	backlog, ch := sess.Attach(lastSeq)

	for _, ev := range backlog {
		writeEvent(w, ev)
	}
	flusher.Flush()

	// Terminal session: the backlog already ends with the end event and
	// nothing further will follow.
	if ch == nil {
		return
	}
	defer sess.Detach(ch)

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case ev, open := <-ch:
			if !open {
				return
			}
			writeEvent(w, ev)
			flusher.Flush()
			if ev.Type == session.EventEnd {
				return
			}
		}
	}
}

func lastSeenSequence(r *http.Request) uint64 {
	raw := r.Header.Get("Last-Event-ID")
	if raw == "" {
		raw = r.URL.Query().Get("last_seq")
	}
	if raw == "" {
		return 0
	}
	seq, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return seq
}

func writeEvent(w http.ResponseWriter, ev session.Event) {
	if ev.Seq > 0 {
		fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", ev.Seq, ev.Type, ev.Data)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, ev.Data)
}
