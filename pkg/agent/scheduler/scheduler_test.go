package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/agent/envelope"
	"github.com/testzeus/hercules/pkg/models"
)

func newTestScheduler() *Scheduler {
	return New([]agent.Tag{agent.TagBrowser, agent.TagSQL, agent.TagAPI})
}

func TestSentinelWinsOverEverything(t *testing.T) {
	s := newTestScheduler()
	msg := models.Message{Content: "done ##TERMINATE TASK## ##target_helper: browser##"}
	assert.Equal(t, Terminal, s.Next("browser_nav", msg).Kind)
	assert.Equal(t, Terminal, s.Next(SpeakerUser, msg).Kind)
}

func TestUserDispatchesByTargetMarker(t *testing.T) {
	s := newTestScheduler()

	d := s.Next(SpeakerUser, models.Message{Content: "open the page\n##target_helper: browser##"})
	assert.Equal(t, ToProposer, d.Kind)
	assert.Equal(t, agent.TagBrowser, d.Tag)

	// Not_Applicable and absent markers end the dialogue.
	assert.Equal(t, Terminal, s.Next(SpeakerUser, models.Message{Content: "##target_helper: Not_Applicable##"}).Kind)
	assert.Equal(t, Terminal, s.Next(SpeakerUser, models.Message{Content: "no marker"}).Kind)

	// Unknown and disabled tags end the dialogue too.
	assert.Equal(t, Terminal, s.Next(SpeakerUser, models.Message{Content: "##target_helper: sec##"}).Kind)
}

func TestProposerExecutorAlternation(t *testing.T) {
	s := newTestScheduler()

	d := s.Next("sql_nav", models.Message{Content: "running a query"})
	assert.Equal(t, ToExecutor, d.Kind)
	assert.Equal(t, agent.TagSQL, d.Tag)

	d = s.Next("sql_executor", models.Message{Content: "3 rows"})
	assert.Equal(t, ToProposer, d.Kind)
	assert.Equal(t, agent.TagSQL, d.Tag)
}

func TestDefensivePrefixRouting(t *testing.T) {
	s := newTestScheduler()
	d := s.Next("browser_helper_v2", models.Message{Content: "odd roster name"})
	assert.Equal(t, ToProposer, d.Kind)
	assert.Equal(t, agent.TagBrowser, d.Tag)

	assert.Equal(t, Terminal, s.Next("unknown_agent", models.Message{Content: "?"}).Kind)
}

// The transition choice must depend only on (lastSpeaker, lastMessage).
func TestNextIsPure(t *testing.T) {
	s := newTestScheduler()
	speakers := []string{SpeakerUser, "browser_nav", "browser_executor", "sql_nav", "stranger"}
	messages := []models.Message{
		{Content: "step one ##target_helper: sql##"},
		{Content: "##TERMINATE TASK##"},
		{Content: "plain text"},
	}
	for _, sp := range speakers {
		for _, msg := range messages {
			first := s.Next(sp, msg)
			for i := 0; i < 5; i++ {
				assert.Equal(t, first, s.Next(sp, msg))
			}
		}
	}
}

func TestReflectionComposition(t *testing.T) {
	s := newTestScheduler()

	env := &envelope.Envelope{NextStep: "open the login page", TargetHelper: "browser"}
	got := s.Reflection(env, "https://example.com/home")
	assert.Contains(t, got, "open the login page")
	assert.Contains(t, got, "https://example.com/home")
	assert.Contains(t, got, "##target_helper: browser##")
}

func TestReflectionOmitsURLForNonBrowser(t *testing.T) {
	s := newTestScheduler()
	env := &envelope.Envelope{NextStep: "count the users", TargetHelper: "sql"}
	got := s.Reflection(env, "https://example.com/home")
	assert.NotContains(t, got, "https://example.com/home")
	assert.Contains(t, got, "##target_helper: sql##")
}

func TestReflectionSkipsMissingStep(t *testing.T) {
	s := newTestScheduler()
	env := &envelope.Envelope{TargetHelper: "api"}
	got := s.Reflection(env, "")
	assert.Contains(t, got, "skip this step")
	assert.Contains(t, got, "##target_helper: api##")
}

// A reflection message must round-trip through the dispatch rule.
func TestReflectionFeedsDispatch(t *testing.T) {
	s := newTestScheduler()
	env := &envelope.Envelope{NextStep: "fetch the record", TargetHelper: "api"}
	reflection := s.Reflection(env, "")

	d := s.Next(SpeakerUser, models.Message{Content: reflection})
	assert.Equal(t, ToProposer, d.Kind)
	assert.Equal(t, agent.TagAPI, d.Tag)
}
