package forms

import (
	"fmt"
	"strings"
	"testing"

	"github.com/guildforms/forms-bot/src/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildForm(t *testing.T, n int) *types.Form {
	t.Helper()
	form := &types.Form{UUID: "11111111-1111-1111-1111-111111111111", GuildID: "g1", Name: "My Form", ChannelID: "c1"}
	for i := 0; i < n; i++ {
		field, err := NewField(fmt.Sprintf("Field %d", i), types.FieldStyleShort)
		require.NoError(t, err)
		require.NoError(t, AddField(form, field, nil))
	}
	return form
}

func labels(form *types.Form) []string {
	out := make([]string, 0, len(form.Fields))
	for i := range form.Fields {
		out = append(out, form.Fields[i].Label)
	}
	return out
}

func assertContiguous(t *testing.T, form *types.Form) {
	t.Helper()
	for i := range form.Fields {
		assert.Equal(t, i, form.Fields[i].Position)
	}
}

func TestAddFieldCapacity(t *testing.T) {
	form := buildForm(t, 5)

	field, err := NewField("One Too Many", types.FieldStyleShort)
	require.NoError(t, err)

	err = AddField(form, field, nil)
	assert.ErrorIs(t, err, ErrCapacity)
	// The form is unchanged.
	assert.Len(t, form.Fields, 5)
	assertContiguous(t, form)
}

func TestAddFieldDuplicateLabel(t *testing.T) {
	form := buildForm(t, 2)

	field, err := NewField("field 1", types.FieldStyleParagraph)
	require.NoError(t, err)

	err = AddField(form, field, nil)
	assert.ErrorIs(t, err, ErrDuplicateLabel)
	assert.Len(t, form.Fields, 2)
}

func TestAddFieldBefore(t *testing.T) {
	form := buildForm(t, 3)

	field, err := NewField("Inserted", types.FieldStyleShort)
	require.NoError(t, err)

	before := 1
	require.NoError(t, AddField(form, field, &before))
	assert.Equal(t, []string{"Field 0", "Inserted", "Field 1", "Field 2"}, labels(form))
	assertContiguous(t, form)
}

func TestAddFieldBeforeOutOfRange(t *testing.T) {
	form := buildForm(t, 2)

	field, err := NewField("Inserted", types.FieldStyleShort)
	require.NoError(t, err)

	before := 3
	assert.ErrorIs(t, AddField(form, field, &before), ErrBadPosition)
}

func TestRemoveFieldReindexes(t *testing.T) {
	form := buildForm(t, 4)

	require.NoError(t, RemoveField(form, 1))
	assert.Equal(t, []string{"Field 0", "Field 2", "Field 3"}, labels(form))
	assertContiguous(t, form)

	assert.ErrorIs(t, RemoveField(form, 3), ErrUnknownField)
}

func TestMoveBackward(t *testing.T) {
	form := buildForm(t, 5)
	require.NoError(t, MoveField(form, 4, 0))
	assert.Equal(t, []string{"Field 4", "Field 0", "Field 1", "Field 2", "Field 3"}, labels(form))
	assertContiguous(t, form)
}

func TestMoveForward(t *testing.T) {
	form := buildForm(t, 5)
	require.NoError(t, MoveField(form, 0, 4))
	assert.Equal(t, []string{"Field 1", "Field 2", "Field 3", "Field 4", "Field 0"}, labels(form))
	assertContiguous(t, form)
}

func TestMoveSame(t *testing.T) {
	form := buildForm(t, 5)
	require.NoError(t, MoveField(form, 2, 2))
	assert.Equal(t, []string{"Field 0", "Field 1", "Field 2", "Field 3", "Field 4"}, labels(form))
}

func TestMoveTooFar(t *testing.T) {
	form := buildForm(t, 5)
	assert.ErrorIs(t, MoveField(form, 0, 10), ErrBadPosition)
	assert.ErrorIs(t, MoveField(form, 7, 0), ErrUnknownField)
}

func TestValidateLabel(t *testing.T) {
	assert.NoError(t, ValidateLabel("Name"))
	assert.ErrorIs(t, ValidateLabel(""), ErrEmptyLabel)
	assert.ErrorIs(t, ValidateLabel(strings.Repeat("x", LabelMaxLength+1)), ErrValueTooLong)

	_, err := NewField("", types.FieldStyleShort)
	assert.ErrorIs(t, err, ErrEmptyLabel)
}

func TestReorderFields(t *testing.T) {
	form := buildForm(t, 3)

	require.NoError(t, ReorderFields(form, []int{2, 0, 1}))
	assert.Equal(t, []string{"Field 2", "Field 0", "Field 1"}, labels(form))
	assertContiguous(t, form)
}

func TestReorderFieldsInvalid(t *testing.T) {
	form := buildForm(t, 3)

	// Wrong length, duplicate entry, out-of-range entry.
	assert.ErrorIs(t, ReorderFields(form, []int{0, 1}), ErrBadPosition)
	assert.ErrorIs(t, ReorderFields(form, []int{0, 0, 1}), ErrBadPosition)
	assert.ErrorIs(t, ReorderFields(form, []int{0, 1, 3}), ErrBadPosition)
	assert.Equal(t, []string{"Field 0", "Field 1", "Field 2"}, labels(form))
}

func TestClampBounds(t *testing.T) {
	tests := []struct {
		name             string
		min, max         int
		wantMin, wantMax int
	}{
		{"zero values pass through", 0, 0, 0, 0},
		{"valid pair passes through", 1, 50, 1, 50},
		{"max above cap is clamped", 0, 5000, 0, AnswerMaxLength},
		{"min above max collapses to max", 100, 50, 50, 50},
		{"negative min becomes zero", -3, 10, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max := ClampBounds(tt.min, tt.max)
			assert.Equal(t, tt.wantMin, min)
			assert.Equal(t, tt.wantMax, max)
		})
	}
}
