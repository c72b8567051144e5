package forms

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/guildforms/forms-bot/src/types"
)

// Interaction custom id prefixes routed by the bot.
const (
	OpenCustomIDPrefix    = "forms:open:"
	SubmitCustomIDPrefix  = "forms:submit:"
	PreviewCustomIDPrefix = "forms:preview:"
)

// Answer pairs a field position with the submitted text.
type Answer struct {
	Position int
	Label    string
	Value    string
	Inline   bool
}

// Submission is the ephemeral result of a validated modal round-trip.
// It is never persisted; the forwarded thread message is the record.
type Submission struct {
	ID          string
	FormUUID    string
	GuildID     string
	UserID      string
	DisplayName string
	AvatarURL   string
	SubmittedAt time.Time
	Answers     []Answer
}

// OpenCustomID tags the open-form button with the form it belongs to.
func OpenCustomID(form *types.Form) string {
	return OpenCustomIDPrefix + form.UUID
}

// SubmitCustomID encodes the form and the number of inputs presented, so
// a submission against a form edited mid-flight is detected instead of
// misaligning answers to the wrong fields.
func SubmitCustomID(form *types.Form) string {
	return fmt.Sprintf("%s%s:%d", SubmitCustomIDPrefix, form.UUID, len(form.Fields))
}

// ParseSubmitCustomID recovers the form UUID and presented field count.
func ParseSubmitCustomID(customID string) (formUUID string, fieldCount int, ok bool) {
	rest, found := strings.CutPrefix(customID, SubmitCustomIDPrefix)
	if !found {
		return "", 0, false
	}
	formUUID, countStr, found := strings.Cut(rest, ":")
	if !found {
		return "", 0, false
	}
	count, err := strconv.Atoi(countStr)
	if err != nil || count < 1 {
		return "", 0, false
	}
	return formUUID, count, true
}

// PreviewCustomID tags an admin preview of the modal. deliver marks
// whether submitting the preview should create a real response.
func PreviewCustomID(form *types.Form, deliver bool) string {
	flag := "0"
	if deliver {
		flag = "1"
	}
	return fmt.Sprintf("%s%s:%d:%s", PreviewCustomIDPrefix, form.UUID, len(form.Fields), flag)
}

// ParsePreviewCustomID recovers the form UUID, presented field count
// and the deliver flag from a preview modal.
func ParsePreviewCustomID(customID string) (formUUID string, fieldCount int, deliver, ok bool) {
	rest, found := strings.CutPrefix(customID, PreviewCustomIDPrefix)
	if !found {
		return "", 0, false, false
	}
	formUUID, rest, found = strings.Cut(rest, ":")
	if !found {
		return "", 0, false, false
	}
	countStr, flag, found := strings.Cut(rest, ":")
	if !found || (flag != "0" && flag != "1") {
		return "", 0, false, false
	}
	count, err := strconv.Atoi(countStr)
	if err != nil || count < 1 {
		return "", 0, false, false
	}
	return formUUID, count, flag == "1", true
}

// BuildModal assembles the modal response for the form: one text input
// per field, in position order, each tagged with its position.
func BuildModal(form *types.Form) (*discordgo.InteractionResponseData, error) {
	if len(form.Fields) == 0 {
		return nil, ErrEmptyForm
	}

	components := make([]discordgo.MessageComponent, 0, len(form.Fields))
	for i := range form.Fields {
		f := &form.Fields[i]

		style := discordgo.TextInputShort
		if f.Style == types.FieldStyleParagraph {
			style = discordgo.TextInputParagraph
		}

		maxLen := f.MaxLength
		if maxLen <= 0 {
			maxLen = AnswerMaxLength
		}

		input := discordgo.TextInput{
			CustomID:    strconv.Itoa(f.Position),
			Label:       f.Label,
			Style:       style,
			Placeholder: f.Placeholder,
			Required:    f.Required,
			MaxLength:   maxLen,
		}
		if f.MinLength > 0 {
			input.MinLength = f.MinLength
		}

		components = append(components, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{input},
		})
	}

	return &discordgo.InteractionResponseData{
		CustomID:   SubmitCustomID(form),
		Title:      form.Name,
		Components: components,
	}, nil
}

// ParseAnswers validates the raw modal answers against the form's
// current fields and produces a Submission. The raw list must match the
// form's field count exactly, in position order.
func ParseAnswers(form *types.Form, raw []string, userID string, now time.Time) (*Submission, error) {
	if len(raw) != len(form.Fields) {
		return nil, ErrFieldCountMismatch
	}

	answers := make([]Answer, 0, len(raw))
	for i := range form.Fields {
		f := &form.Fields[i]
		value := raw[i]

		if err := validateAnswer(f, value); err != nil {
			return nil, err
		}

		answers = append(answers, Answer{
			Position: f.Position,
			Label:    f.Label,
			Value:    value,
			Inline:   f.Inline,
		})
	}

	return &Submission{
		ID:          uuid.NewString(),
		FormUUID:    form.UUID,
		GuildID:     form.GuildID,
		UserID:      userID,
		SubmittedAt: now,
		Answers:     answers,
	}, nil
}

func validateAnswer(f *types.FormField, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if f.Required {
			return &ValidationError{Label: f.Label, Reason: "is required"}
		}
		return nil
	}

	length := utf8.RuneCountInString(value)
	if f.MinLength > 0 && length < f.MinLength {
		return &ValidationError{Label: f.Label, Reason: fmt.Sprintf("must be at least %d characters", f.MinLength)}
	}
	max := f.MaxLength
	if max <= 0 {
		max = AnswerMaxLength
	}
	if length > max {
		return &ValidationError{Label: f.Label, Reason: fmt.Sprintf("must be at most %d characters", max)}
	}
	return nil
}
