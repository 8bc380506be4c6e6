// Package detect locates, sizes, and risk-classifies the disk artifacts of
// developer tools, and coordinates running every detector into one report.
package detect

import (
	"sort"
	"time"
)

// Risk classifies how recoverable a deleted artifact is.
type Risk int

const (
	RiskSafe Risk = iota
	RiskSlowRebuild
	RiskUnsafe
	RiskUnknown
)

func (r Risk) String() string {
	switch r {
	case RiskSafe:
		return "safe"
	case RiskSlowRebuild:
		return "slow rebuild"
	case RiskUnsafe:
		return "unsafe"
	default:
		return "unknown"
	}
}

// Artifact is one identified, sized, risk-classified unit of disk usage
// belonging to a tool. SafeToDelete is never true when Risk is RiskUnsafe,
// and every path in Paths existed at detection time.
type Artifact struct {
	ID           string
	Tool         string
	Kind         string
	SizeBytes    int64
	SafeToDelete bool
	Risk         Risk
	RebuildCost  string
	LastUsed     *time.Time
	Explanation  string
	Paths        []string
}

// ToolSummary aggregates one tool's artifacts. It is always derived from the
// artifact list it carries, never maintained independently of it.
type ToolSummary struct {
	Tool          string
	Artifacts     []Artifact
	TotalBytes    int64
	ArtifactCount int
	SafeBytes     int64
	SafeCount     int
}

func summarize(tool string, artifacts []Artifact) ToolSummary {
	s := ToolSummary{Tool: tool, Artifacts: artifacts, ArtifactCount: len(artifacts)}
	for _, a := range artifacts {
		s.TotalBytes += a.SizeBytes
		if a.SafeToDelete {
			s.SafeBytes += a.SizeBytes
			s.SafeCount++
		}
	}
	return s
}

// Report is the merged outcome of one full detector pass. It replaces any
// previous report wholesale; single-tool rescans patch one summary and
// recompute the totals.
type Report struct {
	Summaries  []ToolSummary
	TotalBytes int64
	SafeBytes  int64
	Timestamp  time.Time
}

func buildReport(summaries []ToolSummary) *Report {
	sorted := make([]ToolSummary, len(summaries))
	copy(sorted, summaries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalBytes > sorted[j].TotalBytes
	})

	rep := &Report{Summaries: sorted, Timestamp: time.Now()}
	for _, s := range sorted {
		rep.TotalBytes += s.TotalBytes
		rep.SafeBytes += s.SafeBytes
	}
	return rep
}

// Summary returns the summary for tool, if the report has one.
func (r *Report) Summary(tool string) (ToolSummary, bool) {
	for _, s := range r.Summaries {
		if s.Tool == tool {
			return s, true
		}
	}
	return ToolSummary{}, false
}
