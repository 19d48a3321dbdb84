// Package doctor runs health checks over the calculator setup: the config
// file, the result template and the history file.
package doctor

import "context"

// Status of a single check item.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// CheckItem is a single line of a check result.
type CheckItem struct {
	Label   string `json:"label"`
	Status  Status `json:"status"`
	Detail  string `json:"detail,omitempty"`
	Fixable bool   `json:"fixable,omitempty"`
}

// Result groups the items reported by one check.
type Result struct {
	Name  string      `json:"name"`
	Items []CheckItem `json:"items"`
}

func (r *Result) add(status Status, label, detail string) {
	r.Items = append(r.Items, CheckItem{Label: label, Status: status, Detail: detail})
}

// Check is one group of related health checks.
type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// Report is the outcome of a doctor run. Fixable counts the warn and fail
// items that `calc doctor --fix` repairs.
type Report struct {
	Healthy bool     `json:"healthy"`
	Passed  int      `json:"passed"`
	Warned  int      `json:"warned"`
	Failed  int      `json:"failed"`
	Fixable int      `json:"fixable"`
	Checks  []Result `json:"checks"`
}

// Run executes the checks in order and tallies their items. A canceled
// context stops before the next check.
func Run(ctx context.Context, checks []Check) Report {
	report := Report{Checks: make([]Result, 0, len(checks))}

	for _, check := range checks {
		if ctx.Err() != nil {
			break
		}

		result := check.Run(ctx)
		for _, item := range result.Items {
			switch item.Status {
			case StatusPass:
				report.Passed++
			case StatusWarn:
				report.Warned++
			case StatusFail:
				report.Failed++
			}
			if item.Fixable && item.Status != StatusPass {
				report.Fixable++
			}
		}
		report.Checks = append(report.Checks, result)
	}

	report.Healthy = report.Failed == 0
	return report
}
