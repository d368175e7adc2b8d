package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kbukum/bytepipe/component"
)

// ComponentInfo is a component as seen right after startup.
type ComponentInfo struct {
	Name    string
	Type    string
	Details string
	Status  component.HealthStatus
	Message string
}

// ResultInfo is one labeled line of the run result.
type ResultInfo struct {
	Label string
	Value string
}

// Summary collects and prints what a run did.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	taskDuration    time.Duration
	components      []ComponentInfo
	results         []ResultInfo
	w               io.Writer
}

// NewSummary creates a summary printed to w, or to stderr when w is nil.
func NewSummary(serviceName, version string, w io.Writer) *Summary {
	if w == nil {
		w = os.Stderr
	}
	return &Summary{
		serviceName: serviceName,
		version:     version,
		w:           w,
	}
}

// SetStartupDuration records the time spent starting components.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// SetTaskDuration records the time spent in the task.
func (s *Summary) SetTaskDuration(d time.Duration) {
	s.taskDuration = d
}

// TrackResult adds a labeled result line.
func (s *Summary) TrackResult(label, value string) {
	s.results = append(s.results, ResultInfo{Label: label, Value: value})
}

// Components returns the components captured at startup.
func (s *Summary) Components() []ComponentInfo {
	return s.components
}

// Results returns the tracked result lines.
func (s *Summary) Results() []ResultInfo {
	return s.results
}

func (s *Summary) captureComponents(ctx context.Context, registry *component.Registry) {
	described := make(map[string]component.Description)
	for _, c := range registry.All() {
		if d, ok := c.(component.Describable); ok {
			described[c.Name()] = d.Describe()
		}
	}

	s.components = s.components[:0]
	for _, h := range registry.HealthAll(ctx) {
		info := ComponentInfo{Name: h.Name, Status: h.Status, Message: h.Message}
		if d, ok := described[h.Name]; ok {
			if d.Name != "" {
				info.Name = d.Name
			}
			info.Type = d.Type
			info.Details = d.Details
		}
		s.components = append(s.components, info)
	}
}

// Display prints the summary.
func (s *Summary) Display(taskErr error) {
	w := s.w
	status := "completed"
	if taskErr != nil {
		status = "failed"
	}

	fmt.Fprintf(w, "\n%s %s %s in %.2fs (startup %.2fs)\n",
		s.serviceName, versionLabel(s.version), status,
		s.taskDuration.Seconds(), s.startupDuration.Seconds())

	if len(s.components) > 0 {
		fmt.Fprintf(w, "\nComponents\n")
		for i, c := range s.components {
			details := c.Details
			if c.Type != "" {
				details = fmt.Sprintf("[%s] %s", c.Type, details)
			}
			if c.Message != "" {
				details += " (" + c.Message + ")"
			}
			fmt.Fprintf(w, "   %s %s %s: %s\n", treePrefix(i, len(s.components)), healthStatusIcon(c.Status), c.Name, details)
		}
	}

	if len(s.results) > 0 {
		fmt.Fprintf(w, "\nResult\n")
		for i, r := range s.results {
			fmt.Fprintf(w, "   %s %-10s %s\n", treePrefix(i, len(s.results)), r.Label, r.Value)
		}
	}
	if taskErr != nil {
		fmt.Fprintf(w, "\nError: %v\n", taskErr)
	}
	fmt.Fprintf(w, "\n")
}

func versionLabel(v string) string {
	if v == "" || v == "dev" {
		return "dev"
	}
	return "v" + v
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
