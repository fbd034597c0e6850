package navigator

import (
	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/agent/prompt"
)

// extractSummary derives the planner-facing summary from the proposer's
// terminal message. The sentinel is stripped; the memory-save marker is
// left in place for the orchestrator to act on. An empty remainder is
// replaced by a fixed placeholder so the planner never receives an empty
// observation. Browser-type navigators append the current page location.
func (p *Pair) extractSummary(terminal string) string {
	summary := agent.StripTerminateSentinel(terminal)
	if summary == "" {
		summary = prompt.RecoverableEmptySummary
	}
	if p.Tag.IsBrowser() && p.CurrentURL != nil {
		if url := p.CurrentURL(); url != "" {
			summary += "\nCurrent page: " + url
		}
	}
	return summary
}
