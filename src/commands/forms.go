package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/guildforms/forms-bot/src/components/forms"
	"github.com/guildforms/forms-bot/src/types"
)

func (h *Handler) handleForms(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	opts := optionMap(sub.Options)

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	switch sub.Name {
	case "create":
		h.createForm(ctx, s, i, data, opts)
	case "delete":
		h.deleteForm(ctx, s, i, opts)
	case "rename":
		h.renameForm(ctx, s, i, opts)
	case "description":
		h.setDescription(ctx, s, i, opts)
	case "destination":
		h.setDestination(ctx, s, i, opts)
	case "mention":
		h.setMention(ctx, s, i, data, opts)
	case "cooldown":
		h.setCooldown(ctx, s, i, opts)
	case "show":
		h.showForm(ctx, s, i, opts)
	case "details":
		h.formDetails(ctx, s, i, opts)
	case "button":
		h.createButton(ctx, s, i, opts)
	}
}

func (h *Handler) createForm(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	form := &types.Form{
		GuildID:   i.GuildID,
		Name:      opts["name"].StringValue(),
		ChannelID: opts["channel"].ChannelValue(nil).ID,
	}

	if opt, ok := opts["description"]; ok {
		form.Description = opt.StringValue()
	}
	if opt, ok := opts["thread_name"]; ok {
		form.ThreadName = opt.StringValue()
	}
	if opt, ok := opts["mention"]; ok {
		form.MentionID, form.MentionIsRole = resolveMention(data, opt)
	}
	if opt, ok := opts["cooldown"]; ok {
		d, err := ParseCooldown(opt.StringValue())
		if err != nil {
			respondEphemeral(s, i, fmt.Sprintf("Cooldown was not formatted correctly: %v.", err))
			return
		}
		form.CooldownSeconds = uint64(d / time.Second)
	}

	if err := h.store.Create(ctx, form); err != nil {
		if errors.Is(err, forms.ErrFormExists) {
			respondEphemeral(s, i, fmt.Sprintf("A form named '%s' already exists in this server.", form.Name))
			return
		}
		log.Printf("commands: create form in guild %s: %v", i.GuildID, err)
		respondEphemeral(s, i, "Failed to create the form. Please try again.")
		return
	}

	respondEphemeral(s, i, fmt.Sprintf("Form '%s' was created. Add fields with /%s add.", form.Name, CommandFields))
}

func (h *Handler) deleteForm(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	form, err := h.lookupForm(ctx, i.GuildID, opts["form"].StringValue())
	if err != nil {
		respondFormError(s, i, err)
		return
	}

	deleted, err := h.store.Delete(ctx, i.GuildID, form.UUID)
	if err != nil {
		log.Printf("commands: delete form %s guild %s: %v", form.UUID, i.GuildID, err)
		respondEphemeral(s, i, "Failed to delete the form. Please try again.")
		return
	}
	if !deleted {
		respondEphemeral(s, i, "Unknown form.")
		return
	}
	respondEphemeral(s, i, "Form was deleted.")
}

func (h *Handler) renameForm(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	h.updateForm(ctx, s, i, opts, "Form was renamed.", func(form *types.Form) (string, error) {
		name := opts["name"].StringValue()
		if _, err := h.store.Get(ctx, i.GuildID, name); err == nil {
			return fmt.Sprintf("A form named '%s' already exists in this server.", name), nil
		} else if !errors.Is(err, forms.ErrFormNotFound) {
			return "", err
		}
		form.Name = name
		return "", nil
	})
}

func (h *Handler) setDescription(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	h.updateForm(ctx, s, i, opts, "Form description was changed.", func(form *types.Form) (string, error) {
		form.Description = ""
		if opt, ok := opts["description"]; ok {
			form.Description = opt.StringValue()
		}
		return "", nil
	})
}

func (h *Handler) setDestination(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	h.updateForm(ctx, s, i, opts, "Form destination was updated.", func(form *types.Form) (string, error) {
		form.ChannelID = opts["channel"].ChannelValue(nil).ID
		return "", nil
	})
}

func (h *Handler) setMention(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	h.updateForm(ctx, s, i, opts, "Mention of the form was changed.", func(form *types.Form) (string, error) {
		form.MentionID, form.MentionIsRole = "", false
		if opt, ok := opts["mention"]; ok {
			form.MentionID, form.MentionIsRole = resolveMention(data, opt)
		}
		return "", nil
	})
}

func (h *Handler) setCooldown(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	h.updateForm(ctx, s, i, opts, "Form cooldown was changed.", func(form *types.Form) (string, error) {
		form.CooldownSeconds = 0
		if opt, ok := opts["duration"]; ok {
			d, err := ParseCooldown(opt.StringValue())
			if err != nil {
				return fmt.Sprintf("Cooldown was not formatted correctly: %v.", err), nil
			}
			form.CooldownSeconds = uint64(d / time.Second)
		}
		return "", nil
	})
}

// updateForm loads the form argument, applies the mutation and persists
// it. The mutation can short-circuit with its own user message.
func (h *Handler) updateForm(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption, success string, mutate func(*types.Form) (string, error)) {
	form, err := h.lookupForm(ctx, i.GuildID, opts["form"].StringValue())
	if err != nil {
		respondFormError(s, i, err)
		return
	}

	msg, err := mutate(form)
	if err != nil {
		log.Printf("commands: update form %s guild %s: %v", form.UUID, i.GuildID, err)
		respondEphemeral(s, i, "Failed to update the form. Please try again.")
		return
	}
	if msg != "" {
		respondEphemeral(s, i, msg)
		return
	}

	if err := h.store.Save(ctx, form); err != nil {
		log.Printf("commands: save form %s guild %s: %v", form.UUID, i.GuildID, err)
		respondEphemeral(s, i, "Failed to update the form. Please try again.")
		return
	}
	respondEphemeral(s, i, success)
}

// showForm presents the form's modal to the admin without the cooldown
// gate, so a form can be tried out before it is published.
func (h *Handler) showForm(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	form, err := h.lookupForm(ctx, i.GuildID, opts["form"].StringValue())
	if err != nil {
		respondFormError(s, i, err)
		return
	}

	modal, err := forms.BuildModal(form)
	if err != nil {
		respondEphemeral(s, i, "A form must have fields to be shown.")
		return
	}

	deliver := false
	if opt, ok := opts["create"]; ok {
		deliver = opt.BoolValue()
	}
	modal.CustomID = forms.PreviewCustomID(form, deliver)

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: modal,
	}); err != nil {
		log.Printf("commands: failed to present preview modal for form %s: %v", form.UUID, err)
	}
}

func (h *Handler) formDetails(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	form, err := h.lookupForm(ctx, i.GuildID, opts["form"].StringValue())
	if err != nil {
		respondFormError(s, i, err)
		return
	}

	lines := []string{fmt.Sprintf("- **Destination**: <#%s>", form.ChannelID)}
	if form.Description != "" {
		lines = append(lines, fmt.Sprintf("- **Description**: %s", form.Description))
	}
	if m := form.Mention(); m != "" {
		lines = append(lines, fmt.Sprintf("- **Mention**: %s", m))
	}
	if d := form.Cooldown(); d > 0 {
		lines = append(lines, fmt.Sprintf("- **Cooldown**: %s", d))
	}
	if form.ThreadName != "" {
		lines = append(lines, fmt.Sprintf("- **Thread name**: %s", form.ThreadName))
	}

	embed := &discordgo.MessageEmbed{
		Title:       form.Name,
		Description: strings.Join(lines, "\n"),
		Fields:      make([]*discordgo.MessageEmbedField, 0, len(form.Fields)),
	}
	for idx := range form.Fields {
		f := &form.Fields[idx]
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%d. %s", f.Position+1, f.Label),
			Value:  fieldDetails(f),
			Inline: true,
		})
	}

	respondEmbed(s, i, embed)
}

func fieldDetails(f *types.FormField) string {
	lines := []string{
		fmt.Sprintf("- **Style**: %s", f.Style),
		fmt.Sprintf("- **Required**: %t", f.Required),
	}
	if f.Placeholder != "" {
		lines = append(lines, fmt.Sprintf("- **Placeholder**: %s", f.Placeholder))
	}
	if f.MinLength > 0 {
		lines = append(lines, fmt.Sprintf("- **Minimum length**: %d", f.MinLength))
	}
	if f.MaxLength > 0 {
		lines = append(lines, fmt.Sprintf("- **Maximum length**: %d", f.MaxLength))
	}
	if f.Inline {
		lines = append(lines, "- **In-line**: true")
	}
	return strings.Join(lines, "\n")
}

func (h *Handler) createButton(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	form, err := h.lookupForm(ctx, i.GuildID, opts["form"].StringValue())
	if err != nil {
		respondFormError(s, i, err)
		return
	}

	button := discordgo.Button{
		Label:    opts["label"].StringValue(),
		Style:    buttonStyle(opts),
		CustomID: forms.OpenCustomID(form),
	}
	if opt, ok := opts["emoji"]; ok {
		button.Emoji = &discordgo.ComponentEmoji{Name: opt.StringValue()}
	}

	msg := &discordgo.MessageSend{
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{button}},
		},
	}
	if opt, ok := opts["message"]; ok {
		msg.Content = opt.StringValue()
	}

	if _, err := s.ChannelMessageSendComplex(i.ChannelID, msg); err != nil {
		log.Printf("commands: post button for form %s: %v", form.UUID, err)
		respondEphemeral(s, i, "Failed to post the button. Check my permissions in this channel.")
		return
	}
	respondEphemeral(s, i, "Button created.")
}

func buttonStyle(opts map[string]*discordgo.ApplicationCommandInteractionDataOption) discordgo.ButtonStyle {
	opt, ok := opts["color"]
	if !ok {
		return discordgo.PrimaryButton
	}
	switch opt.StringValue() {
	case "grey":
		return discordgo.SecondaryButton
	case "green":
		return discordgo.SuccessButton
	case "red":
		return discordgo.DangerButton
	default:
		return discordgo.PrimaryButton
	}
}

// resolveMention identifies whether a mentionable option refers to a
// role or a user by the resolved entities Discord sends along.
func resolveMention(data discordgo.ApplicationCommandInteractionData, opt *discordgo.ApplicationCommandInteractionDataOption) (string, bool) {
	id, ok := opt.Value.(string)
	if !ok {
		return "", false
	}
	if data.Resolved != nil {
		if _, isRole := data.Resolved.Roles[id]; isRole {
			return id, true
		}
	}
	return id, false
}

func respondFormError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	if errors.Is(err, forms.ErrFormNotFound) {
		respondEphemeral(s, i, "Form could not be found.")
		return
	}
	log.Printf("commands: load form: %v", err)
	respondEphemeral(s, i, "Failed to load the form. Please try again.")
}
