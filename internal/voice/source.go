package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

var ErrNoCommand = errors.New("no audio capture command configured")

// CommandSource captures audio from an external recorder writing raw PCM to
// stdout, e.g. "arecord -q -f S16_LE -r 16000 -c 1 -t raw".
type CommandSource struct {
	Args []string
}

func ParseCommand(command string) CommandSource {
	return CommandSource{Args: strings.Fields(command)}
}

// Available reports whether the recorder binary can be found.
func (s CommandSource) Available() error {
	if len(s.Args) == 0 {
		return ErrNoCommand
	}
	if _, err := exec.LookPath(s.Args[0]); err != nil {
		return fmt.Errorf("audio capture command %q: %w", s.Args[0], err)
	}
	return nil
}

func (s CommandSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if len(s.Args) == 0 {
		return nil, ErrNoCommand
	}

	cmd := exec.CommandContext(ctx, s.Args[0], s.Args[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("audio capture stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start audio capture: %w", err)
	}

	return &commandReader{cmd: cmd, stdout: stdout}, nil
}

type commandReader struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	once   sync.Once
}

func (c *commandReader) Read(p []byte) (int, error) {
	return c.stdout.Read(p)
}

// Close kills the recorder and reaps it. The recorder is expected to run until
// killed, so its exit status is not reported.
func (c *commandReader) Close() error {
	c.once.Do(func() {
		if c.cmd.Process != nil {
			_ = c.cmd.Process.Kill()
		}
		_ = c.cmd.Wait()
	})
	return nil
}
