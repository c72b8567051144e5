// Package thread delivers validated submissions into private threads.
package thread

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/guildforms/forms-bot/src/components/forms"
	"github.com/guildforms/forms-bot/src/types"
)

// Threads auto-archive after a week and only moderators can invite.
const autoArchiveMinutes = 10080

type Dispatcher struct {
	session *discordgo.Session
}

func NewDispatcher(session *discordgo.Session) *Dispatcher {
	return &Dispatcher{session: session}
}

// Dispatch creates a private thread under the form's destination channel,
// posts the submission embed and adds the submitter to the thread.
func (d *Dispatcher) Dispatch(ctx context.Context, form *types.Form, sub *forms.Submission) (string, error) {
	th, err := d.session.ThreadStartComplex(form.ChannelID, &discordgo.ThreadStart{
		Name:                ThreadName(form.ThreadName, sub.DisplayName),
		AutoArchiveDuration: autoArchiveMinutes,
		Type:                discordgo.ChannelTypeGuildPrivateThread,
		Invitable:           false,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", &forms.DispatchError{Op: "create thread", Err: err}
	}

	msg := &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{buildSubmissionEmbed(form, sub)},
	}
	if content := messageContent(form); content != "" {
		msg.Content = content
	}

	if _, err := d.session.ChannelMessageSendComplex(th.ID, msg, discordgo.WithContext(ctx)); err != nil {
		return "", &forms.DispatchError{Op: "post message", Err: err}
	}

	if err := d.session.ThreadMemberAdd(th.ID, sub.UserID, discordgo.WithContext(ctx)); err != nil {
		// The submission is delivered; the user just has to be invited
		// manually. Not worth failing the pipeline over.
		return th.ID, nil
	}

	return th.ID, nil
}

func buildSubmissionEmbed(form *types.Form, sub *forms.Submission) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: form.Name,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    sub.DisplayName,
			IconURL: sub.AvatarURL,
		},
		Timestamp: sub.SubmittedAt.Format("2006-01-02T15:04:05Z07:00"),
		Fields:    make([]*discordgo.MessageEmbedField, 0, len(sub.Answers)),
	}

	for _, a := range sub.Answers {
		value := a.Value
		if strings.TrimSpace(value) == "" {
			value = "*No response*"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   a.Label,
			Value:  value,
			Inline: a.Inline,
		})
	}

	return embed
}

func messageContent(form *types.Form) string {
	parts := make([]string, 0, 2)
	if m := form.Mention(); m != "" {
		parts = append(parts, m)
	}
	if form.Description != "" {
		parts = append(parts, form.Description)
	}
	return strings.Join(parts, "\n")
}

// ThreadName renders the form's thread-name template, substituting
// {user} with the submitter's display name. An empty template falls back
// to the display name alone, matching how submissions read in the UI.
func ThreadName(template, displayName string) string {
	if template == "" {
		return truncateName(displayName)
	}
	return truncateName(strings.ReplaceAll(template, "{user}", displayName))
}

// Discord caps channel and thread names at 100 characters.
func truncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= 100 {
		return name
	}
	return string(runes[:100])
}
