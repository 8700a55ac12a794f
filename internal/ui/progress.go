package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// Progress is a concurrency-safe progress sink. The counter only grows.
type Progress interface {
	Increment(n int)
	SetMessage(msg string)
	Finish(msg string)
}

// Hidden discards all progress.
type Hidden struct{}

func (Hidden) Increment(int)     {}
func (Hidden) SetMessage(string) {}
func (Hidden) Finish(string)     {}

// NewProgress returns a spinner on stderr when it is a terminal and quiet
// is false, otherwise a Hidden sink.
func NewProgress(quiet bool) Progress {
	if quiet || !IsTerminal(os.Stderr) {
		return Hidden{}
	}
	return NewSpinner(os.Stderr, spinner.Dot)
}

// Spinner redraws a single status line until Finish is called.
type Spinner struct {
	out    io.Writer
	frames []string
	fps    time.Duration

	count atomic.Int64

	mu       sync.Mutex
	msg      string
	frame    int
	finished bool

	stop chan struct{}
	done chan struct{}
}

// NewSpinner starts a spinner animating the given bubbles frame set.
func NewSpinner(out io.Writer, style spinner.Spinner) *Spinner {
	s := &Spinner{
		out:    out,
		frames: style.Frames,
		fps:    style.FPS,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	if s.fps <= 0 {
		s.fps = 100 * time.Millisecond
	}
	go s.loop()
	return s
}

func (s *Spinner) loop() {
	defer close(s.done)
	ticker := time.NewTicker(s.fps)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.render()
		}
	}
}

func (s *Spinner) render() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	frame := s.frames[s.frame%len(s.frames)]
	s.frame++
	line := AccentStyle.Render(frame) + " " + s.msg
	if n := s.count.Load(); n > 0 {
		line += MutedStyle.Render(fmt.Sprintf(" (%d)", n))
	}
	fmt.Fprintf(s.out, "\r\033[K%s", line)
}

// Increment adds n to the counter.
func (s *Spinner) Increment(n int) {
	if n > 0 {
		s.count.Add(int64(n))
	}
}

// SetMessage replaces the status text.
func (s *Spinner) SetMessage(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

// Finish stops the animation and leaves msg on the line. Further calls
// are no-ops.
func (s *Spinner) Finish(msg string) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	s.mu.Unlock()

	close(s.stop)
	<-s.done
	fmt.Fprintf(s.out, "\r\033[K%s %s\n", SuccessStyle.Render(IconCheck), msg)
}
