package domain

import (
	"regexp"
	"sort"
	"strings"
)

// VacationTemplate is a named mapping from employee name to the set of
// vacation days (day-of-year numbers) used as an input constraint.
// Read-only from the orchestration core's perspective.
type VacationTemplate struct {
	ID        string           `json:"id,omitempty"`
	Name      string           `json:"name"`
	Vacations map[string][]int `json:"vacations"`
}

// EmployeeNames returns the employees covered by the template, sorted
// for deterministic error reporting.
func (t *VacationTemplate) EmployeeNames() []string {
	names := make([]string, 0, len(t.Vacations))
	for name := range t.Vacations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MinimumsKind distinguishes the two mutually exclusive encodings of a
// minimums template.
type MinimumsKind string

const (
	// MinimumsShiftKeyed means rows are labeled with shift codes (M/T/N).
	MinimumsShiftKeyed MinimumsKind = "shift"

	// MinimumsHourKeyed means rows are labeled with hour intervals
	// such as "09-10".
	MinimumsHourKeyed MinimumsKind = "hour"
)

// ReferenceTemplate is a named table of minimum staffing levels. Each row
// is [team, type, shiftOrHourLabel, dailyValues...]. Rows shorter than
// three columns carry no label and are ignored by inference.
type ReferenceTemplate struct {
	ID       string     `json:"id,omitempty"`
	Name     string     `json:"name"`
	Minimums [][]string `json:"minimuns"`
}

// hourLabelRe matches hour-interval row labels like "09-10" or "9-10".
var hourLabelRe = regexp.MustCompile(`^\d{1,2}\s*-\s*\d{1,2}$`)

// labelColumn is the row index holding the shift or hour label.
const labelColumn = 2

// InferShifts detects the template encoding and the shift-equivalent
// count. If any row label matches an hour-interval pattern the whole
// template is hour-keyed and the count is the number of distinct
// intervals; otherwise the count is the number of distinct M/T/N codes
// actually present (0-3).
func (t *ReferenceTemplate) InferShifts() (MinimumsKind, int) {
	hours := make(map[string]struct{})
	codes := make(map[string]struct{})

	for _, row := range t.Minimums {
		if len(row) <= labelColumn {
			continue
		}
		label := strings.TrimSpace(row[labelColumn])
		if label == "" {
			continue
		}
		if hourLabelRe.MatchString(label) {
			hours[strings.ReplaceAll(label, " ", "")] = struct{}{}
			continue
		}
		if code, ok := normalizeShiftCode(label); ok {
			codes[code] = struct{}{}
		}
	}

	if len(hours) > 0 {
		return MinimumsHourKeyed, len(hours)
	}
	return MinimumsShiftKeyed, len(codes)
}

// normalizeShiftCode maps a shift label to its canonical M/T/N code.
// Labels are tolerated in abbreviated ("M") or spelled-out form,
// including the accented spellings the source data uses
// ("Manhã"/"Manha", "Tarde", "Noite").
func normalizeShiftCode(label string) (string, bool) {
	switch strings.ToUpper(string([]rune(strings.TrimSpace(label))[0])) {
	case "M":
		return "M", true
	case "T":
		return "T", true
	case "N":
		return "N", true
	}
	return "", false
}
