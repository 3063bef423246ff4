package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("assistant_llm=on,weekly_digest=off,expert_videos=true,mood_emojis=false,beta_feed=1,dark_mode=0")

	assert.True(t, m.Enabled("assistant_llm", 1))
	assert.True(t, m.Enabled("expert_videos", 1))
	assert.True(t, m.Enabled("beta_feed", 1))
	assert.False(t, m.Enabled("weekly_digest", 1))
	assert.False(t, m.Enabled("mood_emojis", 1))
	assert.False(t, m.Enabled("dark_mode", 1))
}

func TestEnabled_UnknownFlagIsOff(t *testing.T) {
	m := NewManager("assistant_llm=on")

	assert.False(t, m.Enabled("weekly_digest", 1))
}

func TestEnabled_NamesAreCaseInsensitive(t *testing.T) {
	m := NewManager("Assistant_LLM=On")

	assert.True(t, m.Enabled("assistant_llm", 1))
	assert.True(t, m.Enabled("ASSISTANT_LLM", 1))
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("assistant_llm=100%,weekly_digest=0%,expert_videos=25%")

	assert.True(t, m.Enabled("assistant_llm", 1), "100% rollout is always on")
	assert.False(t, m.Enabled("weekly_digest", 1), "0% rollout is always off")

	first := m.Enabled("expert_videos", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("expert_videos", 42),
			"rollout evaluation must be deterministic per user")
	}

	assert.False(t, m.Enabled("expert_videos", 0),
		"anonymous callers never join a partial rollout")
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,assistant_llm=on, expert_videos = 20% ,weekly_digest=off ")

	raw := m.Raw()
	require.Len(t, raw, 3)
	assert.Equal(t, "on", raw["assistant_llm"])
	assert.Equal(t, "20%", raw["expert_videos"])
	assert.Equal(t, "off", raw["weekly_digest"])

	snap := m.Snapshot(123)
	require.Len(t, snap, 3)
	assert.True(t, snap["assistant_llm"])
	assert.False(t, snap["weekly_digest"])
}

func TestEnabled_NilManager(t *testing.T) {
	var m *Manager
	assert.False(t, m.Enabled("assistant_llm", 1))
}
