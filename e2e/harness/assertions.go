package harness

import (
	"fmt"
	"strings"
	"testing"
)

// Assertions provides E2E-specific assertions.
type Assertions struct {
	t *testing.T
}

// NewAssertions creates an assertions helper.
func NewAssertions(t *testing.T) *Assertions {
	return &Assertions{t: t}
}

// OutputContains asserts the output contains all given strings.
func (a *Assertions) OutputContains(output string, expected ...string) {
	a.t.Helper()
	for _, exp := range expected {
		if !strings.Contains(output, exp) {
			a.t.Errorf("expected output to contain %q, got:\n%s", exp, truncate(output, 500))
		}
	}
}

// OutputNotContains asserts the output does not contain any of the given strings.
func (a *Assertions) OutputNotContains(output string, unexpected ...string) {
	a.t.Helper()
	for _, unexp := range unexpected {
		if strings.Contains(output, unexp) {
			a.t.Errorf("expected output NOT to contain %q, got:\n%s", unexp, truncate(output, 500))
		}
	}
}

// StatusCode asserts the response contains expected status code.
func (a *Assertions) StatusCode(output string, code int) {
	a.t.Helper()
	expected := fmt.Sprintf("%d", code)
	if !strings.Contains(output, expected) {
		a.t.Errorf("expected status code %d in output:\n%s", code, truncate(output, 500))
	}
}

// ModeVisible asserts the status bar shows the mode badge.
func (a *Assertions) ModeVisible(output string, mode fmt.Stringer) {
	a.t.Helper()
	if !strings.Contains(output, mode.String()) {
		a.t.Errorf("expected mode %q in output:\n%s", mode.String(), truncate(output, 500))
	}
}

// PaneVisible asserts a field or tab title is visible in the output.
func (a *Assertions) PaneVisible(output string, title string) {
	a.t.Helper()
	if !strings.Contains(output, title) {
		a.t.Errorf("expected pane %q to be visible in output:\n%s", title, truncate(output, 500))
	}
}

// NoError asserts the output doesn't contain error indicators.
func (a *Assertions) NoError(output string) {
	a.t.Helper()
	errorIndicators := []string{"Error:", "error:", "panic:", "PANIC:"}
	for _, ind := range errorIndicators {
		if strings.Contains(output, ind) {
			a.t.Errorf("unexpected error in output: found %q in:\n%s", ind, truncate(output, 500))
			return
		}
	}
}

// ResponseReceived asserts the status bar shows a completed response.
func (a *Assertions) ResponseReceived(output string) {
	a.t.Helper()
	if !strings.Contains(output, "✓") && !strings.Contains(output, "✗") {
		a.t.Errorf("no response received yet:\n%s", truncate(output, 500))
	}
}

// truncate truncates a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "... (truncated)"
}
