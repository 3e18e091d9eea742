package supervisor

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrExecutableNotFound = errors.New("executable not found")
var ErrChildExited = errors.New("child process exited")

const DefaultMaxLine = 1 << 20

// Supervisor runs the extraction executable for the lifetime of the relay.
type Supervisor struct {
	Path string
	Args []string

	// OnStderr receives each error-stream line. The slice is owned by the callee.
	OnStderr func(line []byte)
	Logger   *zap.Logger

	// MaxLine bounds a single output line. Longer lines are skipped whole.
	MaxLine int
}

// Run starts the child and blocks until it exits or ctx is cancelled. A
// cancelled ctx kills the child and returns ctx.Err(); any other exit is
// reported as ErrChildExited.
func (s *Supervisor) Run(ctx context.Context) error {
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("supervisor")

	path, err := exec.LookPath(s.Path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrExecutableNotFound, s.Path)
	}

	cmd := exec.CommandContext(ctx, path, s.Args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", path, err)
	}
	log.Info("child started", zap.String("path", path), zap.Int("pid", cmd.Process.Pid))

	maxLine := s.MaxLine
	if maxLine <= 0 {
		maxLine = DefaultMaxLine
	}

	var g errgroup.Group
	g.Go(func() error {
		return scan(stdout, maxLine, log.With(zap.String("stream", "stdout")), func(line []byte) {
			log.Info(string(line), zap.String("source", "radar"))
		})
	})
	g.Go(func() error {
		return scan(stderr, maxLine, log.With(zap.String("stream", "stderr")), func(line []byte) {
			if s.OnStderr != nil {
				s.OnStderr(line)
			}
		})
	})
	scanErr := g.Wait()
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		log.Info("child stopped", zap.Error(ctx.Err()))
		return ctx.Err()
	}
	if scanErr != nil {
		log.Warn("child output", zap.Error(scanErr))
	}
	if waitErr != nil {
		return fmt.Errorf("%w: %v", ErrChildExited, waitErr)
	}
	return fmt.Errorf("%w: exit status 0", ErrChildExited)
}

// scan hands every line of r to fn until EOF. Lines over maxLine are dropped
// and reading goes on, so the child never blocks on a full pipe. After a read
// error the rest of r is discarded for the same reason.
func scan(r io.Reader, maxLine int, log *zap.Logger, fn func([]byte)) error {
	br := bufio.NewReaderSize(r, 64*1024)
	var line []byte
	tooLong := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			line = append(line, chunk...)
			if len(bytes.TrimRight(line, "\r\n")) > maxLine {
				tooLong = true
				line = line[:0]
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err != nil && !errors.Is(err, io.EOF):
			_, _ = io.Copy(io.Discard, r)
			return err
		}

		if tooLong {
			log.Warn("skipped oversized line", zap.Int("max", maxLine))
		} else if err == nil || len(line) > 0 {
			out := bytes.TrimRight(line, "\r\n")
			fn(append([]byte(nil), out...))
		}
		line = line[:0]
		tooLong = false

		if err != nil {
			return nil
		}
	}
}
