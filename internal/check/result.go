package check

import "time"

// Status classifies the outcome of a single readiness check.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusWarn Status = "warn"
)

// Result is the outcome of a single readiness check.
type Result struct {
	Name    string
	Status  Status
	Message string
}

// Passed reports whether the check did not fail. Warnings count as passed.
func (r Result) Passed() bool {
	return r.Status != StatusFail
}

func pass(name, message string) Result {
	return Result{Name: name, Status: StatusPass, Message: message}
}

func fail(name, message string) Result {
	return Result{Name: name, Status: StatusFail, Message: message}
}

func warn(name, message string) Result {
	return Result{Name: name, Status: StatusWarn, Message: message}
}

// Report is the ordered set of results for one verification run.
type Report struct {
	StartedAt time.Time
	Results   []Result
}

// NewReport returns an empty report stamped with the current time.
func NewReport() *Report {
	return &Report{StartedAt: time.Now().UTC()}
}

// Add appends a result to the report.
func (rep *Report) Add(r Result) {
	rep.Results = append(rep.Results, r)
}

// Passed returns the number of results that did not fail.
func (rep *Report) Passed() int {
	n := 0
	for _, r := range rep.Results {
		if r.Passed() {
			n++
		}
	}
	return n
}

// Total returns the number of results in the report.
func (rep *Report) Total() int {
	return len(rep.Results)
}

// AllPassed reports overall readiness: true iff no result failed.
// An empty report is vacuously ready.
func (rep *Report) AllPassed() bool {
	for _, r := range rep.Results {
		if !r.Passed() {
			return false
		}
	}
	return true
}

// Failures returns the failed results in report order.
func (rep *Report) Failures() []Result {
	var failed []Result
	for _, r := range rep.Results {
		if !r.Passed() {
			failed = append(failed, r)
		}
	}
	return failed
}
