package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// Executor runs alert hooks with timeout support.
type Executor struct {
	timeoutMs int
}

// NewExecutor creates a new Executor with the specified timeout in milliseconds.
func NewExecutor(timeoutMs int) *Executor {
	return &Executor{
		timeoutMs: timeoutMs,
	}
}

// Execute delivers an event to a hook and returns its response.
// The event is marshalled to JSON and written to the hook's stdin; the
// hook's stdout is parsed as a Response. A hook that outlives the
// timeout is killed.
func (e *Executor) Execute(hook *Hook, event *Event) (*Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(e.timeoutMs)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(ctx, hook.Executable)
	cmd.Dir = hook.Path

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	cmd.Stdin = bytes.NewReader(eventJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("hook execution timeout after %dms", e.timeoutMs)
	}

	if err != nil {
		stderrStr := stderr.String()
		if stderrStr != "" {
			return nil, fmt.Errorf("hook execution failed: %w, stderr: %s", err, stderrStr)
		}
		return nil, fmt.Errorf("hook execution failed: %w", err)
	}

	var response Response
	if err := json.Unmarshal(stdout.Bytes(), &response); err != nil {
		return nil, fmt.Errorf("failed to parse hook response: %w, stdout: %s", err, stdout.String())
	}

	return &response, nil
}
