package agent

import (
	"fmt"
	"regexp"
	"strings"
)

// Inter-agent wire markers. These literals are part of the prompt contract
// and must be preserved bit-exact.
const (
	// TerminateSentinel ends a navigator's inner dialogue.
	TerminateSentinel = "##TERMINATE TASK##"
	// SaveInMemMarker asks the orchestrator to persist the surrounding
	// summary into long-term memory.
	SaveInMemMarker = "##FLAG::SAVE_IN_MEM##"
)

var targetHelperPattern = regexp.MustCompile(`##target_helper:\s*([A-Za-z_][\w]*)##`)

// FormatTargetHelper renders the target-helper marker appended to
// reflection messages.
func FormatTargetHelper(tag Tag) string {
	return fmt.Sprintf("##target_helper: %s##", tag)
}

// ParseTargetHelper extracts the target-helper tag from a message, if any.
func ParseTargetHelper(content string) (Tag, bool) {
	m := targetHelperPattern.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return Tag(m[1]), true
}

// ContainsTerminateSentinel reports whether the content carries the
// inner-dialogue termination sentinel.
func ContainsTerminateSentinel(content string) bool {
	return strings.Contains(content, TerminateSentinel)
}

// StripTerminateSentinel removes every occurrence of the sentinel and
// trims the result.
func StripTerminateSentinel(content string) string {
	return strings.TrimSpace(strings.ReplaceAll(content, TerminateSentinel, ""))
}

// ContainsSaveInMemMarker reports whether the content requests a memory save.
func ContainsSaveInMemMarker(content string) bool {
	return strings.Contains(content, SaveInMemMarker)
}

// StripSaveInMemMarker removes the save marker and trims the result.
func StripSaveInMemMarker(content string) string {
	return strings.TrimSpace(strings.ReplaceAll(content, SaveInMemMarker, ""))
}
