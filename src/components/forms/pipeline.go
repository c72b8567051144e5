package forms

import (
	"context"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/guildforms/forms-bot/src/components/cooldown"
	"github.com/guildforms/forms-bot/src/types"
)

// FormSource loads the current form definition for a submission attempt.
type FormSource interface {
	GetByUUID(ctx context.Context, guildID, formUUID string) (*types.Form, error)
}

// CooldownStore is the atomic per-user gate shared by all bot processes.
type CooldownStore interface {
	Check(ctx context.Context, formUUID, userID string) (time.Duration, error)
	CheckAndReserve(ctx context.Context, formUUID, userID string, d time.Duration) (cooldown.Status, error)
}

// Dispatcher delivers a validated submission into a private thread and
// returns the thread id. It may fail transiently.
type Dispatcher interface {
	Dispatch(ctx context.Context, form *types.Form, sub *Submission) (string, error)
}

// Submitter identifies who filled in the modal.
type Submitter struct {
	UserID      string
	DisplayName string
	AvatarURL   string
}

// Pipeline orchestrates a submission attempt: cooldown check, modal
// assembly, answer validation, thread dispatch and cooldown commit. The
// commit happens after a successful dispatch so a failed delivery never
// burns the user's cooldown; the price is that two in-flight submissions
// racing past validation can both dispatch, which is accepted as
// at-least-once delivery.
type Pipeline struct {
	store      FormSource
	cooldowns  CooldownStore
	dispatcher Dispatcher
}

func NewPipeline(store FormSource, cooldowns CooldownStore, dispatcher Dispatcher) *Pipeline {
	return &Pipeline{store: store, cooldowns: cooldowns, dispatcher: dispatcher}
}

// OpenForm checks the user's cooldown and assembles the modal to present.
// An active cooldown blocks opening the form at all.
func (p *Pipeline) OpenForm(ctx context.Context, guildID, formUUID, userID string) (*discordgo.InteractionResponseData, error) {
	form, err := p.store.GetByUUID(ctx, guildID, formUUID)
	if err != nil {
		return nil, err
	}

	if form.Cooldown() > 0 {
		remaining, err := p.cooldowns.Check(ctx, form.UUID, userID)
		if err != nil {
			return nil, err
		}
		if remaining > 0 {
			return nil, &CooldownError{Remaining: remaining}
		}
	}

	return BuildModal(form)
}

// Submit validates the modal answers against the form's current shape,
// dispatches the submission and commits the cooldown. presentedFields is
// the input count encoded on the modal when it was built.
func (p *Pipeline) Submit(ctx context.Context, guildID, formUUID string, presentedFields int, who Submitter, raw []string) (string, error) {
	form, err := p.store.GetByUUID(ctx, guildID, formUUID)
	if err != nil {
		return "", err
	}

	// The form was edited between presentation and submission.
	if presentedFields != len(form.Fields) {
		return "", ErrFieldCountMismatch
	}

	d := form.Cooldown()
	if d > 0 {
		remaining, err := p.cooldowns.Check(ctx, form.UUID, who.UserID)
		if err != nil {
			return "", err
		}
		if remaining > 0 {
			return "", &CooldownError{Remaining: remaining}
		}
	}

	sub, err := ParseAnswers(form, raw, who.UserID, time.Now())
	if err != nil {
		return "", err
	}
	sub.DisplayName = who.DisplayName
	sub.AvatarURL = who.AvatarURL

	threadID, err := p.dispatcher.Dispatch(ctx, form, sub)
	if err != nil {
		return "", err
	}

	if d > 0 {
		status, err := p.cooldowns.CheckAndReserve(ctx, form.UUID, who.UserID, d)
		if err != nil {
			// The submission is already delivered; failing it now would
			// only confuse the user. Log and report success.
			log.Printf("pipeline: cooldown commit failed for form %s guild %s: %v", form.UUID, form.GuildID, err)
		} else if !status.Allowed {
			log.Printf("pipeline: lost cooldown commit race for form %s user %s", form.UUID, who.UserID)
		}
	}

	return threadID, nil
}

// Preview validates the answers of an admin preview the way Submit
// does, but never touches the cooldown store. With deliver unset the
// validated answers are simply discarded.
func (p *Pipeline) Preview(ctx context.Context, guildID, formUUID string, presentedFields int, who Submitter, raw []string, deliver bool) (string, error) {
	form, err := p.store.GetByUUID(ctx, guildID, formUUID)
	if err != nil {
		return "", err
	}

	if presentedFields != len(form.Fields) {
		return "", ErrFieldCountMismatch
	}

	sub, err := ParseAnswers(form, raw, who.UserID, time.Now())
	if err != nil {
		return "", err
	}
	sub.DisplayName = who.DisplayName
	sub.AvatarURL = who.AvatarURL

	if !deliver {
		return "", nil
	}
	return p.dispatcher.Dispatch(ctx, form, sub)
}
