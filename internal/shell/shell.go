// Package shell runs the interactive command loop over a store. Each
// command is two letters followed by its arguments; titles take the rest of
// the line. A failed command prints one message and, unless it already read
// to the end of the line, discards what is left of the line.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/shelf/internal/metrics"
	"github.com/mesh-intelligence/shelf/internal/snapshot"
	"github.com/mesh-intelligence/shelf/internal/store"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

const prompt = "\nEnter command: "

// Shell reads commands from an input stream and writes results to an
// output stream.
type Shell struct {
	store    *store.Store
	snaps    *snapshot.Locator
	metrics  metrics.Recorder
	log      zerolog.Logger
	location string
	prompt   bool

	in  *input
	out io.Writer
}

// Option configures a Shell.
type Option func(*Shell)

// WithLocator sets where sA and rA read and write snapshots.
func WithLocator(l *snapshot.Locator) Option {
	return func(sh *Shell) {
		sh.snaps = l
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(sh *Shell) {
		sh.metrics = r
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(sh *Shell) {
		sh.log = l
	}
}

// WithDefaultLocation sets the snapshot location sA and rA use when the
// command line names none.
func WithDefaultLocation(loc string) Option {
	return func(sh *Shell) {
		sh.location = loc
	}
}

// WithPrompt turns the "Enter command:" prompt on or off. It is on by
// default.
func WithPrompt(on bool) Option {
	return func(sh *Shell) {
		sh.prompt = on
	}
}

// New returns a Shell over s reading from in and writing to out.
func New(s *store.Store, in io.Reader, out io.Writer, opts ...Option) *Shell {
	sh := &Shell{
		store:   s,
		snaps:   snapshot.NewLocator(types.S3Config{}),
		metrics: metrics.Nop{},
		log:     zerolog.Nop(),
		prompt:  true,
		in:      newInput(in),
		out:     out,
	}
	for _, opt := range opts {
		opt(sh)
	}
	return sh
}

// Run executes commands until qq, the end of input, or ctx is done. Command
// failures are reported on the output stream and do not stop the loop; Run
// only returns an error for ctx or a read failure.
func (sh *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if sh.prompt {
			fmt.Fprint(sh.out, prompt)
		}

		name, err := sh.readCommand()
		if err != nil {
			return endOfInput(err)
		}

		cmd, ok := commands[name]
		if !ok {
			sh.log.Debug().Str("command", name).Msg("unrecognized command")
			sh.fail(errUnrecognized)
			continue
		}

		start := time.Now()
		err = cmd(ctx, sh)
		sh.metrics.ObserveCommand(name, err == nil, time.Since(start))
		counts := sh.store.Counts()
		sh.metrics.SetLibrarySize(counts.Records, counts.Collections)

		if errors.Is(err, errEndOfInput) {
			return nil
		}
		if err != nil {
			sh.log.Debug().Err(err).Str("command", name).Msg("command failed")
			sh.fail(err)
			continue
		}
		if name == "qq" {
			return nil
		}
	}
}

// readCommand reads the two command characters. Like the arguments that
// follow, each may be preceded by whitespace.
func (sh *Shell) readCommand() (string, error) {
	first, err := sh.in.char()
	if err != nil {
		return "", err
	}
	second, err := sh.in.char()
	if err != nil {
		return "", err
	}
	return string([]rune{first, second}), nil
}

// fail prints the message for err and drops the unread part of the line.
func (sh *Shell) fail(err error) {
	fmt.Fprintln(sh.out, message(err))
	sh.in.skipLine()
}

func (sh *Shell) printf(format string, args ...any) {
	fmt.Fprintf(sh.out, format, args...)
}

// endOfInput turns running out of commands into a clean stop.
func endOfInput(err error) error {
	if errors.Is(err, errEndOfInput) {
		return nil
	}
	return err
}
