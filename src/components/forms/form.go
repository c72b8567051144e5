// Package forms implements the form definition and submission engine:
// the in-memory field model, the modal assembler, the persisted store
// and the submission pipeline.
package forms

import (
	"strings"

	"github.com/guildforms/forms-bot/src/types"
)

const (
	// A Discord modal carries at most five text inputs per round-trip.
	MaxFields = 5

	LabelMaxLength       = 45
	PlaceholderMaxLength = 100
	AnswerMaxLength      = 1024
	NameMaxLength        = 45
	DescriptionMaxLength = 4096
)

// NewField builds a field with defaults matching the command surface:
// required, no length bounds, no placeholder.
func NewField(label string, style types.FieldStyle) (types.FormField, error) {
	if err := ValidateLabel(label); err != nil {
		return types.FormField{}, err
	}
	if style != types.FieldStyleShort && style != types.FieldStyleParagraph {
		style = types.FieldStyleShort
	}
	return types.FormField{Label: label, Style: style, Required: true}, nil
}

func ValidateLabel(label string) error {
	if label == "" {
		return ErrEmptyLabel
	}
	if len(label) > LabelMaxLength {
		return ErrValueTooLong
	}
	return nil
}

func ValidatePlaceholder(placeholder string) error {
	if len(placeholder) > PlaceholderMaxLength {
		return ErrValueTooLong
	}
	return nil
}

// ClampBounds normalizes a min/max pair into the platform's 0..1024 range.
func ClampBounds(min, max int) (int, int) {
	if min < 0 {
		min = 0
	}
	if min > AnswerMaxLength {
		min = AnswerMaxLength
	}
	if max < 0 {
		max = 0
	}
	if max > AnswerMaxLength {
		max = AnswerMaxLength
	}
	if max > 0 && min > max {
		min = max
	}
	return min, max
}

// AddField appends the field, or inserts it before the given position
// when before is non-nil. Positions are re-indexed to stay contiguous.
func AddField(form *types.Form, field types.FormField, before *int) error {
	if len(form.Fields) >= MaxFields {
		return ErrCapacity
	}
	if HasLabel(form, field.Label) {
		return ErrDuplicateLabel
	}

	if before == nil {
		form.Fields = append(form.Fields, field)
	} else {
		i := *before
		if i < 0 || i > len(form.Fields) {
			return ErrBadPosition
		}
		form.Fields = append(form.Fields, types.FormField{})
		copy(form.Fields[i+1:], form.Fields[i:])
		form.Fields[i] = field
	}

	Reindex(form)
	return nil
}

// RemoveField deletes the field at the position and re-indexes the rest.
func RemoveField(form *types.Form, position int) error {
	if position < 0 || position >= len(form.Fields) {
		return ErrUnknownField
	}
	form.Fields = append(form.Fields[:position], form.Fields[position+1:]...)
	Reindex(form)
	return nil
}

// MoveField relocates the field at position to target, shifting the
// fields in between.
func MoveField(form *types.Form, position, target int) error {
	if position < 0 || position >= len(form.Fields) {
		return ErrUnknownField
	}
	if target < 0 || target >= len(form.Fields) {
		return ErrBadPosition
	}
	if position == target {
		return nil
	}

	order := make([]int, 0, len(form.Fields))
	for i := range form.Fields {
		if i != position {
			order = append(order, i)
		}
	}
	order = append(order[:target:target], append([]int{position}, order[target:]...)...)
	return ReorderFields(form, order)
}

// ReorderFields rearranges the whole field list at once. newOrder must
// be a permutation of the current positions; the field at newOrder[i]
// ends up at position i.
func ReorderFields(form *types.Form, newOrder []int) error {
	if len(newOrder) != len(form.Fields) {
		return ErrBadPosition
	}
	seen := make([]bool, len(form.Fields))
	for _, p := range newOrder {
		if p < 0 || p >= len(form.Fields) || seen[p] {
			return ErrBadPosition
		}
		seen[p] = true
	}

	reordered := make([]types.FormField, len(form.Fields))
	for i, p := range newOrder {
		reordered[i] = form.Fields[p]
	}
	form.Fields = reordered
	Reindex(form)
	return nil
}

// FieldAt returns a pointer into the form's field list for in-place edits.
func FieldAt(form *types.Form, position int) (*types.FormField, error) {
	if position < 0 || position >= len(form.Fields) {
		return nil, ErrUnknownField
	}
	return &form.Fields[position], nil
}

// HasLabel reports whether any field carries the label (case-insensitive).
func HasLabel(form *types.Form, label string) bool {
	for i := range form.Fields {
		if strings.EqualFold(form.Fields[i].Label, label) {
			return true
		}
	}
	return false
}

// Reindex rewrites positions to the contiguous range 0..n-1.
func Reindex(form *types.Form) {
	for i := range form.Fields {
		form.Fields[i].Position = i
	}
}
