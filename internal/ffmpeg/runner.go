package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"subtool/internal/logging"
	"subtool/internal/plan"
)

// stderrTailLines bounds the diagnostic text carried inside a MuxError.
const stderrTailLines = 40

// MuxError reports a muxing process that exited non-zero. It carries the
// executed command line and the tail of the diagnostic stream so failures
// stay diagnosable.
type MuxError struct {
	Command []string
	Output  string
	Err     error
}

func (e *MuxError) Error() string {
	msg := fmt.Sprintf("ffmpeg failed: %v", e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	msg += "\ncommand: " + strings.Join(e.Command, " ")
	return msg
}

func (e *MuxError) Unwrap() error { return e.Err }

// Progress is one progress update for a running mux.
type Progress struct {
	// Percent is 0-100. The terminal 100 fires exactly once after process
	// exit regardless of outcome.
	Percent int
}

// processStarter launches the mux process and returns its diagnostic stream
// plus a wait function. Injectable for tests.
type processStarter func(ctx context.Context, name string, args ...string) (io.ReadCloser, func() error, error)

func defaultProcessStarter(ctx context.Context, name string, args ...string) (io.ReadCloser, func() error, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = io.Discard
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("open stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("start %s: %w", name, err)
	}
	return stderr, cmd.Wait, nil
}

// DurationProbe supplies the total duration used to anchor percentages.
type DurationProbe interface {
	DurationSeconds(ctx context.Context, path string) (float64, bool)
}

// Runner executes mux plans.
type Runner struct {
	binary string
	probe  DurationProbe
	logger *slog.Logger
	start  processStarter
}

// NewRunner constructs a runner for the given ffmpeg binary. probe may be nil
// when no progress anchoring is possible.
func NewRunner(binary string, probe DurationProbe, logger *slog.Logger) *Runner {
	return &Runner{
		binary: binary,
		probe:  probe,
		logger: logging.NewComponentLogger(logger, "ffmpeg"),
		start:  defaultProcessStarter,
	}
}

// WithProcessStarter injects a custom process starter for tests.
func (r *Runner) WithProcessStarter(s processStarter) {
	if r != nil && s != nil {
		r.start = s
	}
}

// Run executes the plan. When events is non-nil, progress updates are sent on
// it and the channel is closed after the terminal event; the caller consumes
// it from its own goroutine. Returns a *MuxError when the process exits
// non-zero.
func (r *Runner) Run(ctx context.Context, p plan.Plan, events chan<- Progress) error {
	var total float64
	if r.probe != nil {
		if input := p.PrincipalInput(); input != "" {
			if seconds, ok := r.probe.DurationSeconds(ctx, input); ok {
				total = seconds
			}
		}
	}

	args := p.Args()
	r.logger.Debug("executing mux",
		logging.String("output", p.Output),
		logging.Float64("total_seconds", total),
		logging.String("command", r.binary+" "+strings.Join(args, " ")),
	)

	stderr, wait, err := r.start(ctx, r.binary, args...)
	if err != nil {
		if events != nil {
			close(events)
		}
		return &MuxError{Command: append([]string{r.binary}, args...), Err: err}
	}

	state := newProgressState(total)
	if events != nil && total > 0 {
		events <- Progress{Percent: 0}
		state.last = 0
	}

	var tail []string
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		tail = appendTail(tail, line)
		elapsed, ok := parseElapsedSeconds(line)
		if !ok {
			continue
		}
		if percent, changed := state.observe(elapsed); changed && events != nil {
			events <- Progress{Percent: percent}
		}
	}

	waitErr := wait()

	// The terminal event fires on every outcome: callers treat 100 as "no
	// more updates", not as success.
	if events != nil {
		if state.last != 100 {
			events <- Progress{Percent: 100}
		}
		close(events)
	}

	if waitErr != nil {
		return &MuxError{
			Command: append([]string{r.binary}, args...),
			Output:  strings.Join(tail, "\n"),
			Err:     waitErr,
		}
	}

	r.logger.Debug("mux complete", logging.String("output", p.Output))
	return nil
}

// RunFunc adapts Run to a plain progress callback for single-file call
// sites.
func (r *Runner) RunFunc(ctx context.Context, p plan.Plan, onProgress func(int)) error {
	if onProgress == nil {
		return r.Run(ctx, p, nil)
	}
	events := make(chan Progress, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for evt := range events {
			onProgress(evt.Percent)
		}
	}()
	err := r.Run(ctx, p, events)
	<-done
	return err
}

func appendTail(tail []string, line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return tail
	}
	tail = append(tail, trimmed)
	if len(tail) > stderrTailLines {
		tail = tail[1:]
	}
	return tail
}
