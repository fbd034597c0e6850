package envelope

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/testzeus/hercules/pkg/agent"
)

// fencedJSONPattern extracts the interior of a ```json fenced block.
var fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(.*?)```")

// anchorKeywords are searched in order by the slicing fallback. The text
// between consecutive anchors becomes the respective field value.
var anchorKeywords = []string{"plan", "next_step", "terminate", "final_response"}

// Parse recovers an envelope from raw planner text. It never fails:
//
//  1. Extract a ```json fenced block when present, otherwise strip stray
//     fences and a leading language tag.
//  2. Normalize literal escape sequences to spaces.
//  3. Structured parse; on failure, retry after JSON repair.
//  4. On failure, keyword-anchored slicing over the anchor fields.
//  5. If no anchor is found either, return a defensive terminating
//     envelope carrying the raw message as final_response.
func Parse(text string) *Envelope {
	candidate := extractPayload(text)
	normalized := normalizeEscapes(candidate)

	if env, ok := parseJSON(normalized); ok {
		return env
	}

	if repaired, err := jsonrepair.JSONRepair(normalized); err == nil {
		if env, ok := parseJSON(repaired); ok {
			env.Recovered = true
			return env
		}
	}

	if env, ok := sliceByKeywords(normalized); ok {
		env.Recovered = true
		return env
	}

	// Defensive termination: nothing recognizable in the message.
	return &Envelope{
		Terminate:     "yes",
		FinalResponse: strings.TrimSpace(text),
		TargetHelper:  string(agent.TagNotApplicable),
		Defensive:     true,
	}
}

// extractPayload isolates the structured part of the message.
func extractPayload(text string) string {
	if m := fencedJSONPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	// A leading language tag left over from fence stripping ("json\n{...").
	if rest, ok := strings.CutPrefix(trimmed, "json"); ok {
		if r := strings.TrimLeft(rest, " \t\r\n"); strings.HasPrefix(r, "{") {
			trimmed = r
		}
	}
	return trimmed
}

// normalizeEscapes flattens literal escape sequences to spaces. Planner
// models frequently emit backslash-escaped newlines inside otherwise-plain
// text, which breaks both the JSON and the slicing paths.
func normalizeEscapes(text string) string {
	replacer := strings.NewReplacer("\\n", " ", "\\r", " ", "\\t", " ")
	return replacer.Replace(text)
}

func parseJSON(text string) (*Envelope, bool) {
	if !strings.HasPrefix(strings.TrimSpace(text), "{") {
		return nil, false
	}
	var env Envelope
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		return nil, false
	}
	return &env, true
}

// sliceByKeywords implements the anchor fallback: locate the anchor
// keywords in order and take the text between consecutive anchors as the
// field value, with quote and punctuation stripping.
func sliceByKeywords(text string) (*Envelope, bool) {
	type anchor struct {
		key string
		pos int
	}
	lower := strings.ToLower(text)

	var anchors []anchor
	searchFrom := 0
	for _, key := range anchorKeywords {
		idx := strings.Index(lower[searchFrom:], key)
		if idx < 0 {
			continue
		}
		anchors = append(anchors, anchor{key: key, pos: searchFrom + idx})
		searchFrom += idx + len(key)
	}
	if len(anchors) == 0 {
		return nil, false
	}

	env := &Envelope{}
	for i, a := range anchors {
		start := a.pos + len(a.key)
		end := len(text)
		if i+1 < len(anchors) {
			end = anchors[i+1].pos
		}
		value := cleanSlice(text[start:end])
		switch a.key {
		case "plan":
			if value != "" {
				env.Plan = StringList{value}
			}
		case "next_step":
			env.NextStep = value
		case "terminate":
			if strings.Contains(strings.ToLower(value), "yes") {
				env.Terminate = "yes"
			} else {
				env.Terminate = "no"
			}
		case "final_response":
			env.FinalResponse = value
		}
	}
	return env, true
}

// cleanSlice trims JSON punctuation and quoting left at slice boundaries.
func cleanSlice(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ":,{}[]")
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	// Trailing separator before the next key, e.g. `..., "` left behind.
	s = strings.TrimSpace(strings.TrimRight(s, `",`))
	return strings.TrimSpace(s)
}
