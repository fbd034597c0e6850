// Package loopdetect decides whether a navigator is stuck re-issuing the
// same tool call with no observable progress. Each navigator executor uses
// it as a termination predicate for the inner dialogue.
package loopdetect

import (
	"encoding/json"
	"strings"

	"github.com/testzeus/hercules/pkg/models"
)

// DefaultThreshold is the number of identical consecutive tool-call
// proposals that flags a navigator as stuck.
const DefaultThreshold = 3

// Detector flags repeated no-progress tool calls.
// The zero value uses DefaultThreshold.
type Detector struct {
	Threshold int
}

// Stuck reports whether the last Threshold tool-call proposals in the
// dialogue are structurally identical (tool name plus argument values,
// compared ignoring whitespace and key order). Proposals may be
// interleaved with executor observations; any free-text proposer message
// in between resets the streak, as does alternation among distinct calls.
func (d Detector) Stuck(history []models.Message) bool {
	threshold := d.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	signatures := lastProposalSignatures(history, threshold)
	if len(signatures) < threshold {
		return false
	}
	first := signatures[0]
	for _, sig := range signatures[1:] {
		if sig != first {
			return false
		}
	}
	return true
}

// lastProposalSignatures walks the history backwards collecting up to max
// tool-call signatures from proposer messages. Executor observations
// (tool-role messages) are skipped; a proposer message without tool calls
// breaks the streak.
func lastProposalSignatures(history []models.Message, max int) []string {
	var collected []string
	for i := len(history) - 1; i >= 0 && len(collected) < max; i-- {
		msg := history[i]
		if msg.Role == models.RoleTool {
			continue
		}
		if msg.Role == models.RoleAssistant && msg.HasToolCalls() {
			collected = append(collected, proposalSignature(msg.ToolCalls))
			continue
		}
		break
	}
	return collected
}

// proposalSignature canonicalizes a proposal's tool calls for structural
// comparison.
func proposalSignature(calls []models.ToolCall) string {
	var sb strings.Builder
	for _, call := range calls {
		sb.WriteString(call.Name)
		sb.WriteByte('(')
		sb.WriteString(canonicalArgs(call.Arguments))
		sb.WriteByte(')')
		sb.WriteByte(';')
	}
	return sb.String()
}

// canonicalArgs re-marshals the arguments JSON so whitespace and key order
// don't defeat the comparison. Non-JSON arguments fall back to stripping
// whitespace.
func canonicalArgs(args string) string {
	var v any
	if err := json.Unmarshal([]byte(args), &v); err == nil {
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	}
	return strings.Join(strings.Fields(args), "")
}
