package debounce

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Sequence debounces inside a Bubble Tea update loop, where timers are
// messages rather than callbacks. Each input issues a new tag; only the tick
// carrying the latest tag is acted on.
type Sequence struct {
	id  int
	tag int
}

// TickMsg is delivered when a debounce window elapses.
type TickMsg struct {
	ID  int
	Tag int
}

// NewSequence returns a Sequence whose ticks carry id, so several inputs can
// debounce independently in one model.
func NewSequence(id int) *Sequence {
	return &Sequence{id: id}
}

// Schedule issues a new tag and returns a command that emits its tick after
// window.
func (s *Sequence) Schedule(window time.Duration) tea.Cmd {
	if window <= 0 {
		window = DefaultWindow
	}
	s.tag++
	msg := TickMsg{ID: s.id, Tag: s.tag}
	return tea.Tick(window, func(time.Time) tea.Msg {
		return msg
	})
}

// Current reports whether msg belongs to this sequence and is the latest tick.
func (s *Sequence) Current(msg TickMsg) bool {
	return msg.ID == s.id && msg.Tag == s.tag
}

// Cancel invalidates any tick already in flight.
func (s *Sequence) Cancel() {
	s.tag++
}
