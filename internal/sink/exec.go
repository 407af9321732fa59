package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// ExecSink runs an external command for every event, passing the event as
// JSON on stdin. It lets players bind game effects (sound, haptics, OBS
// scene switches) without touching this process.
type ExecSink struct {
	command   string
	dir       string
	timeoutMs int
}

// NewExecSink creates an ExecSink for the given command with the specified
// timeout in milliseconds.
func NewExecSink(command, dir string, timeoutMs int) *ExecSink {
	return &ExecSink{
		command:   command,
		dir:       dir,
		timeoutMs: timeoutMs,
	}
}

// Name implements Sink.
func (s *ExecSink) Name() string { return "exec:" + s.command }

// Deliver implements Sink. The command's stdout is ignored; a non-zero exit
// or a timeout is reported as an error with the captured stderr.
func (s *ExecSink) Deliver(e Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.timeoutMs)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.command)
	cmd.Dir = s.dir

	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	cmd.Stdin = bytes.NewReader(payload)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("event hook timeout after %dms", s.timeoutMs)
	}

	if err != nil {
		if msg := stderr.String(); msg != "" {
			return fmt.Errorf("event hook failed: %w, stderr: %s", err, msg)
		}
		return fmt.Errorf("event hook failed: %w", err)
	}

	return nil
}
