package timer

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lifeinfocus/focus/internal/session"
)

// tickMsg carries the generation of the ticker that scheduled it. Ticks from
// an older generation are dropped, so restarting the ticker never leaves two
// tick loops alive.
type tickMsg struct {
	at  time.Time
	gen int
}

// teaTicker implements session.Ticker on top of tea.Tick. The controller only
// flips its state; the model turns a pending start into a tick command after
// each trigger.
type teaTicker struct {
	mu      sync.Mutex
	gen     int
	live    bool
	pending bool
}

func (t *teaTicker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	t.live = true
	t.pending = true
}

func (t *teaTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	t.live = false
	t.pending = false
}

// started returns the command that begins a new tick loop, or nil when the
// ticker was not restarted since the last call.
func (t *teaTicker) started() tea.Cmd {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.pending {
		return nil
	}

	t.pending = false

	return tick(t.gen)
}

// current reports whether msg belongs to the live tick loop.
func (t *teaTicker) current(msg tickMsg) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.live && msg.gen == t.gen
}

// next schedules the following tick of the loop that produced msg.
func (t *teaTicker) next(msg tickMsg) tea.Cmd {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.live || msg.gen != t.gen {
		return nil
	}

	return tick(t.gen)
}

func tick(gen int) tea.Cmd {
	return tea.Tick(session.TickInterval, func(at time.Time) tea.Msg {
		return tickMsg{gen: gen, at: at}
	})
}
