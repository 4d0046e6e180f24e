package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kbukum/scopekit/component"
	"github.com/kbukum/scopekit/di"
)

// Summary tracks and displays the application bootstrap process.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	out             io.Writer
}

// NewSummary creates a new bootstrap summary that prints to stdout.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
		out:         os.Stdout,
	}
}

// SetOutput redirects the summary.
func (s *Summary) SetOutput(w io.Writer) {
	s.out = w
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// DisplaySummary prints the root container's registrations followed by
// live component health. Either argument may be nil.
func (s *Summary) DisplaySummary(registry *component.Registry, container *di.Container) {
	w := s.out

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "🚀 %s v%s started in %.2fs\n\n",
		s.serviceName, s.version, s.startupDuration.Seconds())

	if container != nil {
		regs := container.Registrations()
		fmt.Fprintf(w, "📦 Container %s (%d registrations)\n", container.Name(), len(regs))
		if len(regs) == 0 {
			fmt.Fprintf(w, "   └── No registrations\n")
		}
		for i, r := range regs {
			name := r.Type
			if r.Keyed {
				name = fmt.Sprintf("%s[%s]", r.Type, r.Key)
			}
			fmt.Fprintf(w, "   %s %s %s (%s)\n",
				treePrefix(i, len(regs)), lifetimeIcon(r.Lifetime, r.Initialized), name, r.Lifetime)
		}
	}

	if registry != nil {
		healthResults := registry.HealthAll(context.Background())
		if len(healthResults) > 0 {
			fmt.Fprintf(w, "\n🏥 Health Check\n")
			healthy := 0
			for i, h := range healthResults {
				msg := ""
				if h.Message != "" {
					msg = fmt.Sprintf(" (%s)", h.Message)
				}
				fmt.Fprintf(w, "   %s %s %s: %s%s\n", treePrefix(i, len(healthResults)),
					healthStatusIcon(h.Status), h.Name, strings.ToLower(string(h.Status)), msg)
				if h.Status == component.StatusHealthy {
					healthy++
				}
			}
			fmt.Fprintf(w, "\n")
			if healthy == len(healthResults) {
				fmt.Fprintf(w, "✅ All components healthy (%d/%d)\n", healthy, len(healthResults))
			} else {
				fmt.Fprintf(w, "⚠️  Some components have issues (%d/%d healthy)\n", healthy, len(healthResults))
			}
		}
	}

	fmt.Fprintf(w, "\n")
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

// lifetimeIcon marks cached instances; transients never are.
func lifetimeIcon(l di.Lifetime, initialized bool) string {
	switch {
	case l == di.Transient:
		return "🔁"
	case initialized:
		return "✅"
	default:
		return "⚡"
	}
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
