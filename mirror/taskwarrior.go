package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const defaultTaskwarriorUDA = "timespent"

// Taskwarrior stores minutes spent in a numeric user defined attribute of a
// Taskwarrior task identified by its UUID.
type Taskwarrior struct {
	// run executes the task binary and returns its stdout.
	run     func(ctx context.Context, args ...string) ([]byte, error)
	Command string
	UDA     string
}

// NewTaskwarrior returns a Taskwarrior mirror that invokes command (default
// "task") and writes the uda attribute (default "timespent").
func NewTaskwarrior(command, uda string) *Taskwarrior {
	if command == "" {
		command = "task"
	}

	if uda == "" {
		uda = defaultTaskwarriorUDA
	}

	tw := &Taskwarrior{
		Command: command,
		UDA:     uda,
	}

	tw.run = tw.exec

	return tw
}

func (tw *Taskwarrior) exec(ctx context.Context, args ...string) ([]byte, error) {
	args = append([]string{"rc.hooks=0", "rc.confirmation=off", "rc.verbose=nothing"}, args...)
	cmd := exec.CommandContext(ctx, tw.Command, args...)

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("taskwarrior command failed: exit code %d, stderr: %s",
				exitErr.ExitCode(), strings.TrimSpace(string(exitErr.Stderr)))
		}

		return nil, fmt.Errorf("taskwarrior command failed: %w", err)
	}

	return output, nil
}

func (tw *Taskwarrior) ReadMinutes(ctx context.Context, vendorTaskID string) (float64, error) {
	output, err := tw.run(ctx, vendorTaskID, "export")
	if err != nil {
		return 0, err
	}

	var tasks []map[string]any
	if err := json.Unmarshal(output, &tasks); err != nil {
		return 0, fmt.Errorf("failed to unmarshal taskwarrior output: %w", err)
	}

	if len(tasks) == 0 {
		return 0, errTaskNotFound.Fmt(vendorTaskID)
	}

	return numericField(tasks[0], tw.UDA, vendorTaskID)
}

func (tw *Taskwarrior) WriteMinutes(ctx context.Context, vendorTaskID string, minutes float64) error {
	value := strconv.FormatFloat(minutes, 'f', -1, 64)

	_, err := tw.run(ctx, vendorTaskID, "modify", tw.UDA+":"+value)

	return err
}

// numericField extracts a number from a decoded JSON object. A missing field
// counts as zero since vendors omit unset attributes.
func numericField(obj map[string]any, field, vendorTaskID string) (float64, error) {
	raw, ok := obj[field]
	if !ok || raw == nil {
		return 0, nil
	}

	switch v := raw.(type) {
	case float64:
		return v, nil
	case string:
		if v == "" {
			return 0, nil
		}

		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, errFieldNotNumeric.Fmt(field, vendorTaskID)
		}

		return f, nil
	default:
		return 0, errFieldNotNumeric.Fmt(field, vendorTaskID)
	}
}

var _ Client = (*Taskwarrior)(nil)
