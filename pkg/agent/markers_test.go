package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTargetHelper(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Tag
		found   bool
	}{
		{"plain tag", "do the thing\n##target_helper: browser##", TagBrowser, true},
		{"no space", "##target_helper:sql##", TagSQL, true},
		{"extra spaces", "##target_helper:   api##", TagAPI, true},
		{"not applicable", "##target_helper: Not_Applicable##", TagNotApplicable, true},
		{"absent", "no marker here", "", false},
		{"malformed", "##target_helper browser##", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, ok := ParseTargetHelper(tt.content)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, tag)
		})
	}
}

func TestFormatTargetHelperRoundTrip(t *testing.T) {
	for _, tag := range KnownTags() {
		got, ok := ParseTargetHelper(FormatTargetHelper(tag))
		assert.True(t, ok)
		assert.Equal(t, tag, got)
	}
}

func TestTerminateSentinel(t *testing.T) {
	msg := "Logged in successfully. ##TERMINATE TASK##"
	assert.True(t, ContainsTerminateSentinel(msg))
	assert.Equal(t, "Logged in successfully.", StripTerminateSentinel(msg))

	assert.False(t, ContainsTerminateSentinel("##TERMINATE##"))
	assert.Equal(t, "untouched", StripTerminateSentinel("untouched"))
}

func TestSaveInMemMarker(t *testing.T) {
	msg := "The order id is 42. ##FLAG::SAVE_IN_MEM##"
	assert.True(t, ContainsSaveInMemMarker(msg))
	assert.Equal(t, "The order id is 42.", StripSaveInMemMarker(msg))
	assert.False(t, ContainsSaveInMemMarker("plain text"))
}

func TestTagNames(t *testing.T) {
	assert.Equal(t, "browser_nav", TagBrowser.ProposerName())
	assert.Equal(t, "browser_executor", TagBrowser.ExecutorName())
	assert.True(t, TagBrowser.IsBrowser())
	assert.False(t, TagSQL.IsBrowser())
	assert.True(t, TagSQL.IsDispatchable())
	assert.False(t, TagNotApplicable.IsDispatchable())
	assert.False(t, Tag("").IsDispatchable())
}
