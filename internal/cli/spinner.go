package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/matzehuels/jyotish/pkg/observability"
)

// Spinner provides a progress indicator with context cancellation support.
// Frames go to stderr so they never mix with table or JSON output on stdout.
// While tracking, the running pipeline stage is shown after the message.
type Spinner struct {
	out     io.Writer
	message string
	stage   string
	width   int
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	frames  []string
	mu      sync.Mutex
}

// newSpinner creates a new spinner with the given message.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that will stop when the context is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     os.Stderr,
		message: message,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.draw(s.frames[i%len(s.frames)])
				i++
			}
		}
	}()
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	s.cancel()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.stopped
	s.clearLine()
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.message
	if s.stage != "" {
		text += " " + s.stage
	}
	// Pad over the previous frame when the stage label shrinks.
	pad := max(s.width-utf8.RuneCountInString(text), 0)
	fmt.Fprintf(s.out, "\r%s %s%s", styleIconSpinner.Render(frame), StyleDim.Render(text), strings.Repeat(" ", pad))
	s.width = utf8.RuneCountInString(text)
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", max(s.width, utf8.RuneCountInString(s.message))+4))
}

// =============================================================================
// Pipeline stage tracking
// =============================================================================

// Track registers the spinner as the pipeline hooks so stage names appear
// next to the message. Events are forwarded to the previous hooks. The
// returned func restores them.
func (s *Spinner) Track() (restore func()) {
	prev := observability.Pipeline()
	observability.SetPipelineHooks(stageTracker{s: s, next: prev})
	return func() { observability.SetPipelineHooks(prev) }
}

func (s *Spinner) setStage(stage string) {
	s.mu.Lock()
	s.stage = stage
	s.mu.Unlock()
}

func (s *Spinner) currentStage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

type stageTracker struct {
	s    *Spinner
	next observability.PipelineHooks
}

func (t stageTracker) OnStageStart(ctx context.Context, stage string) {
	t.s.setStage(stage)
	t.next.OnStageStart(ctx, stage)
}

func (t stageTracker) OnStageComplete(ctx context.Context, stage string, d time.Duration, err error) {
	if t.s.currentStage() == stage {
		t.s.setStage("")
	}
	t.next.OnStageComplete(ctx, stage, d, err)
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled returns true if the spinner was stopped due to context cancellation.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
