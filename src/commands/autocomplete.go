package commands

import (
	"context"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const maxChoices = 25

func (h *Handler) handleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	focused := findFocused(data.Options)
	if focused == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	var choices []*discordgo.ApplicationCommandOptionChoice
	switch focused.Name {
	case "form":
		choices = h.formChoices(ctx, i.GuildID, focused.StringValue())
	case "field", "before":
		choices = h.fieldChoices(ctx, i.GuildID, data.Options)
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		log.Printf("commands: autocomplete response: %v", err)
	}
}

func (h *Handler) formChoices(ctx context.Context, guildID, partial string) []*discordgo.ApplicationCommandOptionChoice {
	formList, err := h.store.List(ctx, guildID)
	if err != nil {
		log.Printf("commands: autocomplete forms for guild %s: %v", guildID, err)
		return nil
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(formList))
	for idx := range formList {
		form := &formList[idx]
		if partial != "" && !strings.Contains(strings.ToLower(form.Name), strings.ToLower(partial)) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  form.Name,
			Value: form.UUID,
		})
		if len(choices) == maxChoices {
			break
		}
	}
	return choices
}

func (h *Handler) fieldChoices(ctx context.Context, guildID string, options []*discordgo.ApplicationCommandInteractionDataOption) []*discordgo.ApplicationCommandOptionChoice {
	formOpt := findOption(options, "form")
	if formOpt == nil {
		return nil
	}

	form, err := h.lookupForm(ctx, guildID, formOpt.StringValue())
	if err != nil {
		return nil
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(form.Fields))
	for idx := range form.Fields {
		f := &form.Fields[idx]
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  f.Label,
			Value: f.Position,
		})
	}
	return choices
}

func findFocused(options []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionSubCommand, discordgo.ApplicationCommandOptionSubCommandGroup:
			if found := findFocused(opt.Options); found != nil {
				return found
			}
		default:
			if opt.Focused {
				return opt
			}
		}
	}
	return nil
}

func findOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionSubCommand, discordgo.ApplicationCommandOptionSubCommandGroup:
			if found := findOption(opt.Options, name); found != nil {
				return found
			}
		default:
			if opt.Name == name {
				return opt
			}
		}
	}
	return nil
}
