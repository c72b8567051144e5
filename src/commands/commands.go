// Package commands implements the administrative slash-command surface
// and routes button and modal interactions into the submission pipeline.
package commands

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	CommandForms     = "forms"
	CommandFields    = "forms-fields"
	CommandCooldowns = "forms-cooldowns"
)

var (
	manageServer      = int64(discordgo.PermissionManageServer)
	noDMs             = false
	minZero           = float64(0)
	minOne            = float64(1)
	maxAnswerLen      = float64(1024)
	maxFieldsPosition = float64(5)
)

func formOption(desc string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         "form",
		Description:  desc,
		Required:     true,
		Autocomplete: true,
	}
}

func fieldOption(desc string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionInteger,
		Name:         "field",
		Description:  desc,
		Required:     true,
		Autocomplete: true,
	}
}

func styleOption(desc string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "style",
		Description: desc,
		Required:    required,
		Choices: []*discordgo.ApplicationCommandOptionChoice{
			{Name: "Short (single-line)", Value: "short"},
			{Name: "Paragraph (multi-line)", Value: "paragraph"},
		},
	}
}

var commandDefinitions = map[string]*discordgo.ApplicationCommand{
	CommandForms: {
		Name:                     CommandForms,
		Description:              "Manage forms in the server",
		DefaultMemberPermissions: &manageServer,
		DMPermission:             &noDMs,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "create",
				Description: "Creates a new form",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "The name of the form", Required: true, MaxLength: 45},
					{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "The channel to create submission threads under", Required: true, ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText}},
					{Type: discordgo.ApplicationCommandOptionString, Name: "description", Description: "Text shown on top of submissions", MaxLength: 4096},
					{Type: discordgo.ApplicationCommandOptionMentionable, Name: "mention", Description: "Role/user to be mentioned on submission"},
					{Type: discordgo.ApplicationCommandOptionString, Name: "cooldown", Description: "How long users must wait between submissions (e.g. 15m, 2h, 7d)"},
					{Type: discordgo.ApplicationCommandOptionString, Name: "thread_name", Description: "Thread name template; {user} becomes the submitter's name", MaxLength: 100},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "delete",
				Description: "Deletes a form",
				Options:     []*discordgo.ApplicationCommandOption{formOption("The form to delete")},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "rename",
				Description: "Renames a form",
				Options: []*discordgo.ApplicationCommandOption{
					formOption("The form to modify"),
					{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "New name for the form", Required: true, MaxLength: 45},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "description",
				Description: "Changes the description shown on top of submissions",
				Options: []*discordgo.ApplicationCommandOption{
					formOption("The form to modify"),
					{Type: discordgo.ApplicationCommandOptionString, Name: "description", Description: "The new description (leave it out to clear)", MaxLength: 4096},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "destination",
				Description: "Changes the destination channel of a form",
				Options: []*discordgo.ApplicationCommandOption{
					formOption("The form to modify"),
					{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "The new channel to create threads under", Required: true, ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText}},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "mention",
				Description: "Changes who is mentioned on submission",
				Options: []*discordgo.ApplicationCommandOption{
					formOption("The form to modify"),
					{Type: discordgo.ApplicationCommandOptionMentionable, Name: "mention", Description: "Role/user to mention on submission (leave it out to remove)"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "cooldown",
				Description: "Changes how long users must wait between submissions",
				Options: []*discordgo.ApplicationCommandOption{
					formOption("The form to modify"),
					{Type: discordgo.ApplicationCommandOptionString, Name: "duration", Description: "The new cooldown, e.g. 15m, 2h, 7d (leave it out to clear)"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "show",
				Description: "Previews the form's modal",
				Options: []*discordgo.ApplicationCommandOption{
					formOption("The form to preview"),
					{Type: discordgo.ApplicationCommandOptionBoolean, Name: "create", Description: "Whether submitting should create a response (defaults to false)"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "details",
				Description: "Shows the configuration of a form",
				Options:     []*discordgo.ApplicationCommandOption{formOption("The form to show")},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "button",
				Description: "Posts a button that opens the form",
				Options: []*discordgo.ApplicationCommandOption{
					formOption("The form to open"),
					{Type: discordgo.ApplicationCommandOptionString, Name: "label", Description: "Text for the button", Required: true, MaxLength: 80},
					{
						Type: discordgo.ApplicationCommandOptionString, Name: "color", Description: "The color of the button",
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "Blurple", Value: "blurple"},
							{Name: "Grey", Value: "grey"},
							{Name: "Green", Value: "green"},
							{Name: "Red", Value: "red"},
						},
					},
					{Type: discordgo.ApplicationCommandOptionString, Name: "message", Description: "A message to send with the button"},
					{Type: discordgo.ApplicationCommandOptionString, Name: "emoji", Description: "An emoji for the button"},
				},
			},
		},
	},
	CommandFields: {
		Name:                     CommandFields,
		Description:              "Manage the fields of forms",
		DefaultMemberPermissions: &manageServer,
		DMPermission:             &noDMs,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Adds a field to a form",
				Options: []*discordgo.ApplicationCommandOption{
					formOption("The form to modify"),
					{Type: discordgo.ApplicationCommandOptionString, Name: "label", Description: "The label of the field", Required: true, MaxLength: 45},
					styleOption("The style of the field", true),
					{Type: discordgo.ApplicationCommandOptionString, Name: "placeholder", Description: "Placeholder text for the field", MaxLength: 100},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "min_length", Description: "The minimum length of answers", MinValue: &minZero, MaxValue: maxAnswerLen},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "max_length", Description: "The maximum length of answers", MinValue: &minOne, MaxValue: maxAnswerLen},
					{Type: discordgo.ApplicationCommandOptionBoolean, Name: "required", Description: "Whether the field is required (defaults to true)"},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "before", Description: "Insert before this existing field; otherwise added at the bottom", Autocomplete: true},
					{Type: discordgo.ApplicationCommandOptionBoolean, Name: "inline", Description: "Whether to inline the field when printing submissions"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Removes a field from a form",
				Options: []*discordgo.ApplicationCommandOption{
					formOption("The form to modify"),
					fieldOption("The field to remove"),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "move",
				Description: "Moves a field to a new position",
				Options: []*discordgo.ApplicationCommandOption{
					formOption("The form to modify"),
					fieldOption("The field to move"),
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "position", Description: "The new position for this field", Required: true, MinValue: &minOne, MaxValue: maxFieldsPosition},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "rename",
				Description: "Renames a field",
				Options: []*discordgo.ApplicationCommandOption{
					formOption("The form to modify"),
					fieldOption("The field to update"),
					{Type: discordgo.ApplicationCommandOptionString, Name: "label", Description: "The new label of the field", Required: true, MaxLength: 45},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "style",
				Description: "Updates the style of a field",
				Options: []*discordgo.ApplicationCommandOption{
					formOption("The form to modify"),
					fieldOption("The field to update"),
					styleOption("The new style of the field", true),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "placeholder",
				Description: "Updates the placeholder of a field",
				Options: []*discordgo.ApplicationCommandOption{
					formOption("The form to modify"),
					fieldOption("The field to update"),
					{Type: discordgo.ApplicationCommandOptionString, Name: "placeholder", Description: "New placeholder text (leave it out to remove)", MaxLength: 100},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "inline",
				Description: "Updates whether submissions in-line this field",
				Options: []*discordgo.ApplicationCommandOption{
					formOption("The form to modify"),
					fieldOption("The field to update"),
					{Type: discordgo.ApplicationCommandOptionBoolean, Name: "inline", Description: "Whether to inline the field when printing submissions", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "validation",
				Description: "Updates the answer constraints of a field",
				Options: []*discordgo.ApplicationCommandOption{
					formOption("The form to modify"),
					fieldOption("The field to update"),
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "min_length", Description: "The new minimum length of answers", MinValue: &minZero, MaxValue: maxAnswerLen},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "max_length", Description: "The new maximum length of answers", MinValue: &minOne, MaxValue: maxAnswerLen},
					{Type: discordgo.ApplicationCommandOptionBoolean, Name: "required", Description: "Whether the field is required (defaults to true)"},
				},
			},
		},
	},
	CommandCooldowns: {
		Name:                     CommandCooldowns,
		Description:              "Manage form cooldowns",
		DefaultMemberPermissions: &manageServer,
		DMPermission:             &noDMs,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "clear",
				Description: "Clears a user's cooldown for a form",
				Options: []*discordgo.ApplicationCommandOption{
					formOption("The form to clear the cooldown for"),
					{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "The user to clear the cooldown for", Required: true},
				},
			},
		},
	},
}

var defaultCommandOrder = []string{CommandForms, CommandFields, CommandCooldowns}

// Register registers the slash commands. An empty guildID registers them
// globally.
func Register(s *discordgo.Session, guildID string) error {
	var failures []string
	for _, name := range defaultCommandOrder {
		definition := commandDefinitions[name]
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, guildID, definition); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			log.Printf("commands: failed to register %q: %v", name, err)
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("commands: registration errors: %s", strings.Join(failures, "; "))
	}
	return nil
}
