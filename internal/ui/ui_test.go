package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

// ─── Select ──────────────────────────────────────────────────────────────────

func TestSelectStartsWithEverythingSelected(t *testing.T) {
	m := NewSelect("pick", []string{"a", "b", "c"})
	assert.Equal(t, []int{0, 1, 2}, m.Selected())
}

func TestSelectToggleAndMove(t *testing.T) {
	m := send(NewSelect("pick", []string{"a", "b", "c"}),
		tea.KeyMsg{Type: tea.KeyDown},
		keyRunes(" "),
	).(SelectModel)
	assert.Equal(t, []int{0, 2}, m.Selected())

	m = send(m, keyRunes("k"), keyRunes("x")).(SelectModel)
	assert.Equal(t, []int{2}, m.Selected())
}

func TestSelectToggleAll(t *testing.T) {
	m := send(NewSelect("pick", []string{"a", "b"}), keyRunes("a")).(SelectModel)
	assert.Empty(t, m.Selected())

	m = send(m, keyRunes("a")).(SelectModel)
	assert.Equal(t, []int{0, 1}, m.Selected())
}

func TestSelectCursorStaysInBounds(t *testing.T) {
	m := send(NewSelect("pick", []string{"a", "b"}),
		tea.KeyMsg{Type: tea.KeyUp},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
	).(SelectModel)
	assert.Equal(t, 1, m.cursor)
}

func TestSelectConfirmAndCancelQuit(t *testing.T) {
	m := NewSelect("pick", []string{"a"})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, next.(SelectModel).confirmed)
	assert.Empty(t, next.View())

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.True(t, next.(SelectModel).canceled)
}

func TestSelectScrollsWithCursor(t *testing.T) {
	items := make([]string, 50)
	for i := range items {
		items[i] = "item"
	}
	var m tea.Model = NewSelect("pick", items)
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 10})
	for range 20 {
		m = send(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	sm := m.(SelectModel)
	assert.Equal(t, 20, sm.cursor)
	assert.LessOrEqual(t, sm.offset, sm.cursor)
	assert.Less(t, sm.cursor, sm.offset+sm.height)
	assert.Equal(t, sm.height, strings.Count(sm.View(), "item"))
}

// ─── Confirm ─────────────────────────────────────────────────────────────────

func TestConfirmKeys(t *testing.T) {
	tests := []struct {
		name     string
		def      bool
		keys     []tea.Msg
		result   bool
		canceled bool
	}{
		{"y answers yes", false, []tea.Msg{keyRunes("y")}, true, false},
		{"n answers no", true, []tea.Msg{keyRunes("n")}, false, false},
		{"enter takes default yes", true, []tea.Msg{tea.KeyMsg{Type: tea.KeyEnter}}, true, false},
		{"enter takes default no", false, []tea.Msg{tea.KeyMsg{Type: tea.KeyEnter}}, false, false},
		{"toggle then enter", false, []tea.Msg{tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyEnter}}, true, false},
		{"esc cancels", true, []tea.Msg{tea.KeyMsg{Type: tea.KeyEsc}}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := send(NewConfirm("sure?", tt.def), tt.keys...).(ConfirmModel)
			assert.True(t, m.Done())
			assert.Equal(t, tt.result, m.Result())
			assert.Equal(t, tt.canceled, m.Canceled)
		})
	}
}

func TestConfirmViewShowsMessage(t *testing.T) {
	assert.Contains(t, NewConfirm("Delete 3 projects?", false).View(), "Delete 3 projects?")
}

// ─── Progress ────────────────────────────────────────────────────────────────

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerCountsConcurrently(t *testing.T) {
	out := &syncBuffer{}
	s := NewSpinner(out, spinner.Spinner{Frames: []string{"-"}, FPS: time.Millisecond})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				s.Increment(1)
			}
		}()
	}
	wg.Wait()
	s.Increment(0)
	s.Increment(-5)

	assert.EqualValues(t, 800, s.count.Load())
	s.SetMessage("scanning")
	s.Finish("done")
	s.Finish("again")

	assert.Contains(t, out.String(), "done")
	assert.NotContains(t, out.String(), "again")
}

func TestHiddenIsNoop(t *testing.T) {
	var p Progress = Hidden{}
	p.Increment(3)
	p.SetMessage("x")
	p.Finish("y")
}

func TestNewProgressQuiet(t *testing.T) {
	assert.IsType(t, Hidden{}, NewProgress(true))
}
