package harness

import (
	"bytes"
	"context"
	"time"

	"github.com/dhzdhd/curlr/internal/cli"
)

// CLIResult holds CLI execution results.
type CLIResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// CLIRunner executes CLI commands.
type CLIRunner struct {
	harness *E2EHarness
}

// Run executes a CLI command with the given arguments.
func (r *CLIRunner) Run(args ...string) (*CLIResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.harness.Timeout())
	defer cancel()

	start := time.Now()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := cli.NewRootCommand("test")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)

	result := &CLIResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		result.ExitCode = 1
	}

	return result, err
}

// Send is a convenience method for the send command.
func (r *CLIRunner) Send(url string, opts ...string) (*CLIResult, error) {
	args := append([]string{"send", url}, opts...)
	return r.Run(args...)
}

// SendWithHeaders sends a request with one -H flag per header line.
func (r *CLIRunner) SendWithHeaders(url string, headers ...string) (*CLIResult, error) {
	args := []string{"send", url}
	for _, h := range headers {
		args = append(args, "-H", h)
	}
	return r.Run(args...)
}

// SendWithBody sends a request with a body.
func (r *CLIRunner) SendWithBody(url, body string, headers ...string) (*CLIResult, error) {
	args := []string{"send", url, "-d", body}
	for _, h := range headers {
		args = append(args, "-H", h)
	}
	return r.Run(args...)
}

// DryRun assembles the request and prints it in format instead of sending it.
func (r *CLIRunner) DryRun(url, format string, opts ...string) (*CLIResult, error) {
	args := []string{"send", url, "--dry-run"}
	if format != "" {
		args = append(args, "--format", format)
	}
	return r.Run(append(args, opts...)...)
}
