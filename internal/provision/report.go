package provision

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/simonvc/lbcoa/internal/chart"
	"github.com/simonvc/lbcoa/internal/ledger"
)

// Kind classifies a provisioning failure.
type Kind string

const (
	KindConfigNotFound      Kind = "CONFIG_NOT_FOUND"
	KindParentMissing       Kind = "PARENT_MISSING"
	KindPartialProvisioning Kind = "PARTIAL_PROVISIONING"
	KindImportAbort         Kind = "IMPORT_ABORT"
)

// StepError is the error a provisioning step returns.
type StepError struct {
	Step    string
	Kind    Kind
	Message string
	Err     error
}

func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s (caused by: %v)", e.Step, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Step, e.Kind, e.Message)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// KindOf classifies err, falling back to def for errors no step has classified.
func KindOf(err error, def Kind) Kind {
	var se *StepError
	if errors.As(err, &se) {
		return se.Kind
	}
	if errors.Is(err, chart.ErrConfigNotFound) || errors.Is(err, ledger.ErrChartNotFound) {
		return KindConfigNotFound
	}
	return def
}

// StepResult is one line of a provisioning report.
type StepResult struct {
	Name     string        `json:"name"`
	OK       bool          `json:"ok"`
	Skipped  bool          `json:"skipped,omitempty"`
	Kind     Kind          `json:"kind,omitempty"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Report collects the outcome of every step run for one lifecycle event.
type Report struct {
	RunID    string          `json:"run_id"`
	Company  string          `json:"company"`
	Lebanese bool            `json:"lebanese"`
	Steps    []StepResult    `json:"steps"`
	Defaults ledger.Defaults `json:"defaults,omitempty"`
}

func NewReport(company string) *Report {
	return &Report{
		RunID:    uuid.Must(uuid.NewV7()).String(),
		Company:  company,
		Defaults: ledger.Defaults{},
	}
}

func (r *Report) record(name string, err error, def Kind, d time.Duration) {
	res := StepResult{Name: name, OK: err == nil, Duration: d}
	if err != nil {
		res.Kind = KindOf(err, def)
		res.Message = err.Error()
	}
	r.Steps = append(r.Steps, res)
}

func (r *Report) skip(name, reason string) {
	r.Steps = append(r.Steps, StepResult{Name: name, OK: true, Skipped: true, Message: reason})
}

// OK reports whether every step succeeded.
func (r *Report) OK() bool {
	return len(r.Failed()) == 0
}

func (r *Report) Failed() []StepResult {
	var failed []StepResult
	for _, s := range r.Steps {
		if !s.OK {
			failed = append(failed, s)
		}
	}
	return failed
}

// Step returns the named step result.
func (r *Report) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}
