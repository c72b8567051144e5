package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/guildforms/forms-bot/src/components/cooldown"
	"github.com/guildforms/forms-bot/src/components/forms"
	"github.com/guildforms/forms-bot/src/types"
)

const interactionTimeout = 15 * time.Second

type Handler struct {
	store     *forms.Store
	cooldowns *cooldown.Enforcer
	pipeline  *forms.Pipeline
}

func NewHandler(store *forms.Store, cooldowns *cooldown.Enforcer, dispatcher forms.Dispatcher) *Handler {
	return &Handler{
		store:     store,
		cooldowns: cooldowns,
		pipeline:  forms.NewPipeline(store, cooldowns, dispatcher),
	}
}

// HandleInteraction routes slash commands, autocomplete, open-form
// buttons and modal submissions.
func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		return
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		switch data.Name {
		case CommandForms:
			h.handleForms(s, i, data)
		case CommandFields:
			h.handleFields(s, i, data)
		case CommandCooldowns:
			h.handleCooldowns(s, i, data)
		}
	case discordgo.InteractionApplicationCommandAutocomplete:
		h.handleAutocomplete(s, i)
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		if formUUID, ok := strings.CutPrefix(customID, forms.OpenCustomIDPrefix); ok {
			h.handleOpen(s, i, formUUID)
		}
	case discordgo.InteractionModalSubmit:
		customID := i.ModalSubmitData().CustomID
		if formUUID, fieldCount, ok := forms.ParseSubmitCustomID(customID); ok {
			h.handleSubmit(s, i, formUUID, fieldCount)
		} else if formUUID, fieldCount, deliver, ok := forms.ParsePreviewCustomID(customID); ok {
			h.handlePreviewSubmit(s, i, formUUID, fieldCount, deliver)
		}
	}
}

// handleOpen answers an open-form button click with the form's modal, or
// with the reason it cannot be presented.
func (h *Handler) handleOpen(s *discordgo.Session, i *discordgo.InteractionCreate, formUUID string) {
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	modal, err := h.pipeline.OpenForm(ctx, i.GuildID, formUUID, i.Member.User.ID)
	if err != nil {
		respondEphemeral(s, i, userMessage(err))
		return
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: modal,
	}); err != nil {
		log.Printf("commands: failed to present modal for form %s: %v", formUUID, err)
	}
}

// handleSubmit validates and dispatches a completed modal.
func (h *Handler) handleSubmit(s *discordgo.Session, i *discordgo.InteractionCreate, formUUID string, fieldCount int) {
	if err := deferEphemeral(s, i); err != nil {
		log.Printf("commands: failed to acknowledge modal submit: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	raw, ok := collectAnswers(i.ModalSubmitData())
	if !ok {
		editResponse(s, i, userMessage(forms.ErrFieldCountMismatch))
		return
	}
	who := forms.Submitter{
		UserID:      i.Member.User.ID,
		DisplayName: displayName(i.Member),
		AvatarURL:   i.Member.AvatarURL(""),
	}

	threadID, err := h.pipeline.Submit(ctx, i.GuildID, formUUID, fieldCount, who, raw)
	if err != nil {
		var dispatchErr *forms.DispatchError
		if errors.As(err, &dispatchErr) {
			log.Printf("commands: dispatch failed for form %s guild %s: %v", formUUID, i.GuildID, err)
		}
		editResponse(s, i, userMessage(err))
		return
	}

	editResponse(s, i, fmt.Sprintf("Thank you! Your submission was sent to <#%s>.", threadID))
}

// handlePreviewSubmit finishes an admin preview: the answers are
// validated like a real submission but the cooldown is never touched,
// and the result is only delivered when the preview asked for it.
func (h *Handler) handlePreviewSubmit(s *discordgo.Session, i *discordgo.InteractionCreate, formUUID string, fieldCount int, deliver bool) {
	if err := deferEphemeral(s, i); err != nil {
		log.Printf("commands: failed to acknowledge preview submit: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	raw, ok := collectAnswers(i.ModalSubmitData())
	if !ok {
		editResponse(s, i, userMessage(forms.ErrFieldCountMismatch))
		return
	}
	who := forms.Submitter{
		UserID:      i.Member.User.ID,
		DisplayName: displayName(i.Member),
		AvatarURL:   i.Member.AvatarURL(""),
	}

	threadID, err := h.pipeline.Preview(ctx, i.GuildID, formUUID, fieldCount, who, raw, deliver)
	if err != nil {
		editResponse(s, i, userMessage(err))
		return
	}

	if threadID == "" {
		editResponse(s, i, "Preview finished. No response was created.")
		return
	}
	editResponse(s, i, fmt.Sprintf("Preview submission was sent to <#%s>.", threadID))
}

// collectAnswers orders the submitted values by the field position each
// input was tagged with when the modal was built, so the platform's row
// order never decides which label an answer belongs to. A missing,
// duplicate or unparsable tag reports not-ok.
func collectAnswers(data discordgo.ModalSubmitInteractionData) ([]string, bool) {
	byPosition := make(map[int]string, len(data.Components))
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok || len(actionsRow.Components) == 0 {
			continue
		}
		input, ok := actionsRow.Components[0].(*discordgo.TextInput)
		if !ok {
			continue
		}
		position, err := strconv.Atoi(input.CustomID)
		if err != nil || position < 0 {
			return nil, false
		}
		if _, dup := byPosition[position]; dup {
			return nil, false
		}
		byPosition[position] = input.Value
	}

	raw := make([]string, len(byPosition))
	for position, value := range byPosition {
		if position >= len(raw) {
			return nil, false
		}
		raw[position] = value
	}
	return raw, true
}

func displayName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}

// userMessage translates every pipeline error into a message naming the
// specific cause. Unknown errors get a generic line; the details are in
// the logs.
func userMessage(err error) string {
	var validationErr *forms.ValidationError
	var cooldownErr *forms.CooldownError
	var dispatchErr *forms.DispatchError

	switch {
	case errors.As(err, &validationErr):
		return fmt.Sprintf("'%s' %s.", validationErr.Label, validationErr.Reason)
	case errors.As(err, &cooldownErr):
		return fmt.Sprintf("Please wait %s before submitting again.", cooldownErr.Remaining.Round(time.Second))
	case errors.As(err, &dispatchErr):
		return "Your submission could not be delivered. Your answers were not consumed; please try again in a moment."
	case errors.Is(err, forms.ErrFormNotFound):
		return "This form no longer exists."
	case errors.Is(err, forms.ErrEmptyForm):
		return "This form is not correctly configured: it has no fields."
	case errors.Is(err, forms.ErrFieldCountMismatch):
		return "This form changed while you were filling it in. Please open it again."
	case errors.Is(err, cooldown.ErrStoreUnavailable):
		return "The bot is temporarily unavailable. Please try again shortly."
	default:
		return "Something went wrong. Please try again later."
	}
}

// lookupForm resolves a form argument: autocomplete supplies the UUID,
// but users can also type the form's name directly.
func (h *Handler) lookupForm(ctx context.Context, guildID, value string) (*types.Form, error) {
	form, err := h.store.GetByUUID(ctx, guildID, value)
	if err == nil {
		return form, nil
	}
	if !errors.Is(err, forms.ErrFormNotFound) {
		return nil, err
	}
	return h.store.Get(ctx, guildID, value)
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}
