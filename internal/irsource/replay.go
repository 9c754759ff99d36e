package irsource

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pleimann/ir2hid/internal/event"
	"github.com/pleimann/ir2hid/internal/irproto"
	"github.com/pleimann/ir2hid/internal/table"
)

// DefaultReplayDelay separates replayed signals that do not set their own delay
const DefaultReplayDelay = 100 * time.Millisecond

// Step is one line of a replay script
type Step struct {
	Signal event.Signal
	Delay  time.Duration
}

// ParseReplay reads a replay script. Each non-blank line that does not start
// with '#' has the form
//
//	PROTOCOL ADDRESS COMMAND [repeat] [delay=DURATION]
//
// where ADDRESS and COMMAND are hexadecimal as in the mapping table and
// DURATION is the pause before the signal is delivered.
func ParseReplay(r io.Reader) ([]Step, error) {
	var steps []Step
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		step, err := parseStep(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		steps = append(steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}

func parseStep(text string) (Step, error) {
	fields := strings.Fields(text)
	if len(fields) < 3 {
		return Step{}, fmt.Errorf("expected PROTOCOL ADDRESS COMMAND, got %q", text)
	}

	step := Step{Delay: DefaultReplayDelay}
	// Unregistered names are kept as Unknown so the status screen shows them
	step.Signal.Protocol = irproto.ByName(fields[0])

	var err error
	if step.Signal.Address, err = table.ParseHex(fields[1]); err != nil {
		return Step{}, fmt.Errorf("address: %w", err)
	}
	if step.Signal.Command, err = table.ParseHex(fields[2]); err != nil {
		return Step{}, fmt.Errorf("command: %w", err)
	}

	for _, opt := range fields[3:] {
		switch {
		case opt == "repeat":
			step.Signal.Repeat = true
		case strings.HasPrefix(opt, "delay="):
			d, err := time.ParseDuration(strings.TrimPrefix(opt, "delay="))
			if err != nil || d < 0 {
				return Step{}, fmt.Errorf("invalid delay %q", opt)
			}
			step.Delay = d
		default:
			return Step{}, fmt.Errorf("unknown option %q", opt)
		}
	}
	return step, nil
}

// Replay delivers signals from a script file instead of a receiver. A path of
// "-" reads the script from standard input.
type Replay struct {
	path   string
	logger *slog.Logger
}

// NewReplay creates a replay source for the script at path
func NewReplay(path string, logger *slog.Logger) *Replay {
	return &Replay{path: path, logger: logger}
}

// Run plays the script once and returns when it ends or ctx is done
func (r *Replay) Run(ctx context.Context, handle Handler) error {
	var in io.Reader = os.Stdin
	if r.path != "-" {
		f, err := os.Open(r.path)
		if err != nil {
			return fmt.Errorf("failed to open replay script: %w", err)
		}
		defer f.Close()
		in = f
	}

	steps, err := ParseReplay(in)
	if err != nil {
		return fmt.Errorf("%s: %w", r.path, err)
	}
	r.logger.Info("replaying signals", "path", r.path, "count", len(steps))

	return Play(ctx, steps, handle)
}

// Play delivers steps in order, waiting each step's delay first
func Play(ctx context.Context, steps []Step, handle Handler) error {
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for _, step := range steps {
		if step.Delay > 0 {
			timer.Reset(step.Delay)
			select {
			case <-ctx.Done():
				return nil
			case <-timer.C:
			}
		} else if ctx.Err() != nil {
			return nil
		}
		handle(step.Signal)
	}
	return nil
}
