package alert

import "sort"

// Groups buckets alerts the way the alert panel displays them.
type Groups struct {
	Critical []Alert `json:"critical"`
	Warning  []Alert `json:"warning"`
	Info     []Alert `json:"info"`
}

// Group splits alerts into critical, warning and info buckets.
// Success alerts share the info bucket. Order within a bucket is preserved.
func Group(alerts []Alert) Groups {
	g := Groups{Critical: []Alert{}, Warning: []Alert{}, Info: []Alert{}}
	for _, a := range alerts {
		switch a.Severity {
		case SeverityCritical:
			g.Critical = append(g.Critical, a)
		case SeverityWarning:
			g.Warning = append(g.Warning, a)
		default:
			g.Info = append(g.Info, a)
		}
	}
	return g
}

// Summary counts alerts per severity.
type Summary struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
	Success  int `json:"success"`
	Total    int `json:"total"`
}

// Summarize counts alerts by severity.
func Summarize(alerts []Alert) Summary {
	var s Summary
	for _, a := range alerts {
		switch a.Severity {
		case SeverityCritical:
			s.Critical++
		case SeverityWarning:
			s.Warning++
		case SeverityInfo:
			s.Info++
		case SeveritySuccess:
			s.Success++
		}
	}
	s.Total = len(alerts)
	return s
}

// SortBySeverity returns a copy ordered most urgent first, keeping
// evaluation order among equal severities.
func SortBySeverity(alerts []Alert) []Alert {
	out := make([]Alert, len(alerts))
	copy(out, alerts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() < out[j].Severity.Rank()
	})
	return out
}
