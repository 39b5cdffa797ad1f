// Package verify runs an ordered suite of deployment checkers and reports the
// outcome as a human-readable banner.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Check is one verification step. It writes its own status line to out and
// reports whether the step passed. A returned error means the step could not
// be evaluated.
type Check func(ctx context.Context, out io.Writer) (bool, error)

// Checker is a named Check. Name is the display name used in the banner.
type Checker struct {
	Name  string
	Check Check
}

// Outcome is the classification of a single checker invocation.
type Outcome int

const (
	OutcomePassed Outcome = iota
	OutcomeFailed
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomePassed:
		return "passed"
	case OutcomeFailed:
		return "failed"
	case OutcomeError:
		return "error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "passed":
		*o = OutcomePassed
	case "failed":
		*o = OutcomeFailed
	case "error":
		*o = OutcomeError
	default:
		return fmt.Errorf("verify: unknown outcome %q", b)
	}
	return nil
}

// Result is the record of one checker invocation.
type Result struct {
	Name     string        `json:"name"`
	Outcome  Outcome       `json:"outcome"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report summarizes one run. OK is exactly Passed == Total.
type Report struct {
	RunID    string        `json:"run_id"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Passed   int           `json:"passed"`
	Total    int           `json:"total"`
	OK       bool          `json:"ok"`
	Results  []Result      `json:"results"`
}

// ExitCode maps a report to the process exit status.
func ExitCode(r Report) int {
	if r.OK {
		return 0
	}
	return 1
}

// WriteJSON writes r as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
