package commands

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

func (h *Handler) handleCooldowns(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if len(data.Options) == 0 || data.Options[0].Name != "clear" {
		return
	}
	opts := optionMap(data.Options[0].Options)

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	form, err := h.lookupForm(ctx, i.GuildID, opts["form"].StringValue())
	if err != nil {
		respondFormError(s, i, err)
		return
	}

	userID := opts["user"].UserValue(nil).ID
	cleared, err := h.cooldowns.Clear(ctx, form.UUID, userID)
	if err != nil {
		log.Printf("commands: clear cooldown for form %s user %s: %v", form.UUID, userID, err)
		respondEphemeral(s, i, "The cooldown store is temporarily unavailable. Please try again shortly.")
		return
	}

	if cleared {
		respondEphemeral(s, i, fmt.Sprintf("Cooldown was cleared for <@%s>.", userID))
	} else {
		respondEphemeral(s, i, fmt.Sprintf("<@%s> was not on cooldown for this form.", userID))
	}
}
