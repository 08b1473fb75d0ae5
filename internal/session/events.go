package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nimamura/fencing-drill/internal/drill"
	"github.com/nimamura/fencing-drill/internal/generator"
)

// EventType names an outbound stream event.
type EventType string

const (
	EventCommand EventType = "command"
	EventStatus  EventType = "status"
	EventEnd     EventType = "end"
)

// Event is one outbound stream event. Seq is assigned to command and end
// events only; status events are auxiliary and regenerable, so they carry
// no sequence and are not replayed after a reconnect.
type Event struct {
	Type EventType
	Seq  uint64
	Data string
}

type commandPayload struct {
	ID       string `json:"id"`
	French   string `json:"fr"`
	Japanese string `json:"jp"`
	Audio    string `json:"audio"`
	Sequence uint64 `json:"sequence"`
}

type statusPayload struct {
	Remaining string `json:"remaining,omitempty"`
	Rep       int    `json:"rep,omitempty"`
	Total     int    `json:"total,omitempty"`
	Set       int    `json:"set,omitempty"`
	Sets      int    `json:"sets,omitempty"`
	Phase     string `json:"phase,omitempty"`
}

func commandEvent(cmd *drill.Command, seq uint64) Event {
	return Event{
		Type: EventCommand,
		Seq:  seq,
		Data: mustJSON(commandPayload{
			ID:       cmd.ID,
			French:   cmd.French,
			Japanese: cmd.Japanese,
			Audio:    cmd.AudioRef(),
			Sequence: seq,
		}),
	}
}

func statusEvent(st *generator.Status) Event {
	p := statusPayload{
		Rep:   st.Rep,
		Total: st.Total,
		Set:   st.Set,
		Sets:  st.Sets,
		Phase: string(st.Phase),
	}
	if st.Remaining > 0 {
		p.Remaining = formatRemaining(st.Remaining)
	}
	return Event{Type: EventStatus, Data: mustJSON(p)}
}

func endEvent(seq uint64) Event {
	return Event{
		Type: EventEnd,
		Seq:  seq,
		Data: mustJSON(map[string]any{"message": "終了", "sequence": seq}),
	}
}

// formatRemaining renders a duration as M:SS for the progress display,
// rounding up so the countdown never shows 0:00 while time remains.
func formatRemaining(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `{}`
	}
	return string(b)
}
