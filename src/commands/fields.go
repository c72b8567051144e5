package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/guildforms/forms-bot/src/components/forms"
	"github.com/guildforms/forms-bot/src/types"
)

func (h *Handler) handleFields(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	opts := optionMap(sub.Options)

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	switch sub.Name {
	case "add":
		h.addField(ctx, s, i, opts)
	case "remove":
		h.removeField(ctx, s, i, opts)
	case "move":
		h.moveField(ctx, s, i, opts)
	case "rename":
		h.renameField(ctx, s, i, opts)
	case "style":
		h.setFieldStyle(ctx, s, i, opts)
	case "placeholder":
		h.setFieldPlaceholder(ctx, s, i, opts)
	case "inline":
		h.setFieldInline(ctx, s, i, opts)
	case "validation":
		h.setFieldValidation(ctx, s, i, opts)
	}
}

func (h *Handler) addField(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	field, err := forms.NewField(opts["label"].StringValue(), types.FieldStyle(opts["style"].StringValue()))
	if err != nil {
		respondEphemeral(s, i, labelMessage(err))
		return
	}

	if opt, ok := opts["placeholder"]; ok {
		if err := forms.ValidatePlaceholder(opt.StringValue()); err != nil {
			respondEphemeral(s, i, "The placeholder is too long.")
			return
		}
		field.Placeholder = opt.StringValue()
	}

	var min, max int
	if opt, ok := opts["min_length"]; ok {
		min = int(opt.IntValue())
	}
	if opt, ok := opts["max_length"]; ok {
		max = int(opt.IntValue())
	}
	field.MinLength, field.MaxLength = forms.ClampBounds(min, max)

	if opt, ok := opts["required"]; ok {
		field.Required = opt.BoolValue()
	}
	if opt, ok := opts["inline"]; ok {
		field.Inline = opt.BoolValue()
	}

	var before *int
	if opt, ok := opts["before"]; ok {
		pos := int(opt.IntValue())
		before = &pos
	}

	h.updateForm(ctx, s, i, opts, "Field was added.", func(form *types.Form) (string, error) {
		switch err := forms.AddField(form, field, before); {
		case errors.Is(err, forms.ErrCapacity):
			return fmt.Sprintf("The maximum of %d fields has been reached.", forms.MaxFields), nil
		case errors.Is(err, forms.ErrDuplicateLabel):
			return fmt.Sprintf("A field labeled '%s' already exists on this form.", field.Label), nil
		case errors.Is(err, forms.ErrBadPosition):
			return "`before` is not a valid field position.", nil
		default:
			return "", err
		}
	})
}

func labelMessage(err error) string {
	if errors.Is(err, forms.ErrEmptyLabel) {
		return "The field label must not be empty."
	}
	return "The field label is too long."
}

func (h *Handler) removeField(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	position := int(opts["field"].IntValue())
	h.updateForm(ctx, s, i, opts, "Field was removed.", func(form *types.Form) (string, error) {
		if err := forms.RemoveField(form, position); err != nil {
			return "Unknown field.", nil
		}
		return "", nil
	})
}

func (h *Handler) moveField(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	position := int(opts["field"].IntValue())
	target := int(opts["position"].IntValue()) - 1

	h.updateForm(ctx, s, i, opts, "Field was moved.", func(form *types.Form) (string, error) {
		switch err := forms.MoveField(form, position, target); {
		case errors.Is(err, forms.ErrUnknownField):
			return "Unknown field.", nil
		case errors.Is(err, forms.ErrBadPosition):
			return fmt.Sprintf("The form has %d fields, so the position must be between 1 and %d.", len(form.Fields), len(form.Fields)), nil
		default:
			return "", err
		}
	})
}

func (h *Handler) renameField(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	position := int(opts["field"].IntValue())
	label := opts["label"].StringValue()

	h.updateForm(ctx, s, i, opts, "Field was renamed.", func(form *types.Form) (string, error) {
		if err := forms.ValidateLabel(label); err != nil {
			return labelMessage(err), nil
		}
		field, err := forms.FieldAt(form, position)
		if err != nil {
			return "Unknown field.", nil
		}
		if field.Label != label && forms.HasLabel(form, label) {
			return fmt.Sprintf("A field labeled '%s' already exists on this form.", label), nil
		}
		field.Label = label
		return "", nil
	})
}

func (h *Handler) setFieldStyle(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	position := int(opts["field"].IntValue())
	style := types.FieldStyle(opts["style"].StringValue())

	h.updateForm(ctx, s, i, opts, "Field style was updated.", func(form *types.Form) (string, error) {
		field, err := forms.FieldAt(form, position)
		if err != nil {
			return "Unknown field.", nil
		}
		field.Style = style
		return "", nil
	})
}

func (h *Handler) setFieldPlaceholder(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	position := int(opts["field"].IntValue())

	h.updateForm(ctx, s, i, opts, "Field placeholder was updated.", func(form *types.Form) (string, error) {
		field, err := forms.FieldAt(form, position)
		if err != nil {
			return "Unknown field.", nil
		}
		field.Placeholder = ""
		if opt, ok := opts["placeholder"]; ok {
			if err := forms.ValidatePlaceholder(opt.StringValue()); err != nil {
				return "The placeholder is too long.", nil
			}
			field.Placeholder = opt.StringValue()
		}
		return "", nil
	})
}

func (h *Handler) setFieldInline(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	position := int(opts["field"].IntValue())
	inline := opts["inline"].BoolValue()

	h.updateForm(ctx, s, i, opts, "Field in-lining was updated.", func(form *types.Form) (string, error) {
		field, err := forms.FieldAt(form, position)
		if err != nil {
			return "Unknown field.", nil
		}
		field.Inline = inline
		return "", nil
	})
}

func (h *Handler) setFieldValidation(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	position := int(opts["field"].IntValue())

	h.updateForm(ctx, s, i, opts, "Field validation was updated.", func(form *types.Form) (string, error) {
		field, err := forms.FieldAt(form, position)
		if err != nil {
			return "Unknown field.", nil
		}

		var min, max int
		if opt, ok := opts["min_length"]; ok {
			min = int(opt.IntValue())
		}
		if opt, ok := opts["max_length"]; ok {
			max = int(opt.IntValue())
		}
		field.MinLength, field.MaxLength = forms.ClampBounds(min, max)

		field.Required = true
		if opt, ok := opts["required"]; ok {
			field.Required = opt.BoolValue()
		}
		return "", nil
	})
}
