// Package progress draws a terminal spinner while a long stage runs.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// clearLine returns the cursor to column 0 and erases the line.
const clearLine = "\r\x1b[2K"

// Spinner animates "<message>... <frame>" on a single line from a
// background goroutine. Stop and Fail join that goroutine before printing,
// so nothing is written by it once they return.
type Spinner struct {
	w       io.Writer
	animate bool
	frames  spinner.Spinner

	frameStyle lipgloss.Style
	okStyle    lipgloss.Style
	failStyle  lipgloss.Style

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// New creates a Spinner writing to w. With animate false (output is not a
// terminal) Start prints the message once and no goroutine is started.
func New(w io.Writer, animate bool) *Spinner {
	plain := lipgloss.NewStyle()
	s := &Spinner{
		w:          w,
		animate:    animate,
		frames:     spinner.Line,
		frameStyle: plain,
		okStyle:    plain,
		failStyle:  plain,
	}
	if animate {
		s.frameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
		s.okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
		s.failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	}
	return s
}

// Start begins feedback for message. A spinner that is already running is
// stopped first without a completion line.
func (s *Spinner) Start(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.halt()

	if !s.animate {
		_, _ = fmt.Fprintf(s.w, "%s...\n", message)
		return
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(message, s.stop, s.done)
}

// Stop ends the animation and prints "<message> ✓".
func (s *Spinner) Stop(message string) {
	s.finish(message, s.okStyle.Render("✓"))
}

// Fail ends the animation and prints "<message> ✗".
func (s *Spinner) Fail(message string) {
	s.finish(message, s.failStyle.Render("✗"))
}

func (s *Spinner) finish(message, mark string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.halt()

	prefix := ""
	if s.animate {
		prefix = clearLine
	}
	_, _ = fmt.Fprintf(s.w, "%s%s %s\n", prefix, message, mark)
}

// halt signals the goroutine and waits for it to exit. Callers hold mu.
func (s *Spinner) halt() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop, s.done = nil, nil
}

func (s *Spinner) run(message string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.frames.FPS)
	defer ticker.Stop()

	for i := 0; ; i++ {
		frame := s.frames.Frames[i%len(s.frames.Frames)]
		_, _ = fmt.Fprintf(s.w, "\r%s... %s", message, s.frameStyle.Render(frame))

		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}
