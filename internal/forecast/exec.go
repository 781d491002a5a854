package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/schema"
)

// Request is the JSON body sent to external forecasters.
type Request struct {
	History []schema.SeriesPoint `json:"history"`
	Periods int                  `json:"periods"`
}

// Exec runs an external command per forecast. The request goes to stdin as JSON
// and a schema.ForecastOutput is read back from stdout.
type Exec struct {
	Command string
	Args    []string
}

var _ contract.Forecaster = &Exec{} // Compile-time check

// NewExec splits a command line on whitespace into the program and its arguments.
func NewExec(commandLine string) (*Exec, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, fmt.Errorf("forecast command is empty")
	}
	return &Exec{Command: fields[0], Args: fields[1:]}, nil
}

// Forecast implements the Forecaster interface.
func (e *Exec) Forecast(ctx context.Context, history []schema.SeriesPoint, periods int) (schema.ForecastOutput, error) {
	body, err := json.Marshal(Request{History: history, Periods: periods})
	if err != nil {
		return schema.ForecastOutput{}, fmt.Errorf("failed to encode forecast request: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.Command, e.Args...)
	cmd.Stdin = bytes.NewReader(body)
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return schema.ForecastOutput{}, fmt.Errorf("forecast command failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var out schema.ForecastOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return schema.ForecastOutput{}, fmt.Errorf("failed to decode forecast command output: %w", err)
	}
	return out, nil
}
