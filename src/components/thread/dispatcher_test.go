package thread

import (
	"strings"
	"testing"
	"time"

	"github.com/guildforms/forms-bot/src/components/forms"
	"github.com/guildforms/forms-bot/src/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadName(t *testing.T) {
	assert.Equal(t, "Feedback from Alice", ThreadName("Feedback from {user}", "Alice"))
	assert.Equal(t, "Alice", ThreadName("", "Alice"))
	assert.Equal(t, "No placeholder", ThreadName("No placeholder", "Alice"))

	long := ThreadName("{user}'s application", strings.Repeat("x", 120))
	assert.Equal(t, 100, len([]rune(long)))
}

func TestBuildSubmissionEmbed(t *testing.T) {
	form := &types.Form{Name: "Feedback"}
	at := time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC)
	sub := &forms.Submission{
		DisplayName: "Alice",
		AvatarURL:   "https://cdn.example/avatar.png",
		SubmittedAt: at,
		Answers: []forms.Answer{
			{Position: 0, Label: "Name", Value: "Alice"},
			{Position: 1, Label: "Comments", Value: "", Inline: true},
		},
	}

	embed := buildSubmissionEmbed(form, sub)
	assert.Equal(t, "Feedback", embed.Title)
	assert.Equal(t, "Alice", embed.Author.Name)
	assert.Equal(t, "2026-08-27T10:30:00Z", embed.Timestamp)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Alice", embed.Fields[0].Value)
	assert.Equal(t, "*No response*", embed.Fields[1].Value)
	assert.True(t, embed.Fields[1].Inline)
}

func TestMessageContent(t *testing.T) {
	form := &types.Form{}
	assert.Equal(t, "", messageContent(form))

	form.Description = "Please review."
	assert.Equal(t, "Please review.", messageContent(form))

	form.MentionID = "42"
	form.MentionIsRole = true
	assert.Equal(t, "<@&42>\nPlease review.", messageContent(form))
}
