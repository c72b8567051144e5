package forms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guildforms/forms-bot/src/components/cooldown"
	"github.com/guildforms/forms-bot/src/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	form *types.Form
	err  error
}

func (s *fakeSource) GetByUUID(ctx context.Context, guildID, formUUID string) (*types.Form, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.form, nil
}

type fakeCooldowns struct {
	remaining time.Duration
	checkErr  error

	reserved     bool
	reserveCalls int
	reserveDur   time.Duration
	reserveErr   error
}

func (c *fakeCooldowns) Check(ctx context.Context, formUUID, userID string) (time.Duration, error) {
	return c.remaining, c.checkErr
}

func (c *fakeCooldowns) CheckAndReserve(ctx context.Context, formUUID, userID string, d time.Duration) (cooldown.Status, error) {
	c.reserveCalls++
	c.reserveDur = d
	if c.reserveErr != nil {
		return cooldown.Status{}, c.reserveErr
	}
	c.reserved = true
	return cooldown.Status{Allowed: true}, nil
}

type fakeDispatcher struct {
	threadID string
	err      error
	calls    int
	lastSub  *Submission
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, form *types.Form, sub *Submission) (string, error) {
	d.calls++
	d.lastSub = sub
	if d.err != nil {
		return "", d.err
	}
	return d.threadID, nil
}

func pipelineForm(cooldownSecs uint64) *types.Form {
	return &types.Form{
		UUID:            "33333333-3333-3333-3333-333333333333",
		GuildID:         "g1",
		Name:            "Feedback",
		ChannelID:       "c1",
		CooldownSeconds: cooldownSecs,
		Fields: []types.FormField{
			{Position: 0, Label: "Name", Style: types.FieldStyleShort, Required: true, MinLength: 1, MaxLength: 50},
			{Position: 1, Label: "Comments", Style: types.FieldStyleParagraph, Required: false, MaxLength: 500},
		},
	}
}

func TestOpenFormBlockedByCooldown(t *testing.T) {
	form := pipelineForm(3600)
	cds := &fakeCooldowns{remaining: 90 * time.Second}
	p := NewPipeline(&fakeSource{form: form}, cds, &fakeDispatcher{})

	_, err := p.OpenForm(context.Background(), "g1", form.UUID, "u1")
	var cErr *CooldownError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, 90*time.Second, cErr.Remaining)
	assert.Zero(t, cds.reserveCalls, "a read-only check must not reserve")
}

func TestOpenFormNoCooldownSkipsStore(t *testing.T) {
	form := pipelineForm(0)
	cds := &fakeCooldowns{checkErr: errors.New("store down")}
	p := NewPipeline(&fakeSource{form: form}, cds, &fakeDispatcher{})

	modal, err := p.OpenForm(context.Background(), "g1", form.UUID, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Feedback", modal.Title)
}

func TestOpenFormNotFound(t *testing.T) {
	p := NewPipeline(&fakeSource{err: ErrFormNotFound}, &fakeCooldowns{}, &fakeDispatcher{})

	_, err := p.OpenForm(context.Background(), "g1", "missing", "u1")
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestSubmitSuccessCommitsCooldown(t *testing.T) {
	form := pipelineForm(3600)
	cds := &fakeCooldowns{}
	disp := &fakeDispatcher{threadID: "t1"}
	p := NewPipeline(&fakeSource{form: form}, cds, disp)

	who := Submitter{UserID: "u1", DisplayName: "Alice"}
	threadID, err := p.Submit(context.Background(), "g1", form.UUID, 2, who, []string{"Alice", "hi"})
	require.NoError(t, err)
	assert.Equal(t, "t1", threadID)
	assert.True(t, cds.reserved)
	assert.Equal(t, time.Hour, cds.reserveDur)
	require.NotNil(t, disp.lastSub)
	assert.Equal(t, "Alice", disp.lastSub.DisplayName)
}

func TestSubmitZeroCooldownNeverReserves(t *testing.T) {
	form := pipelineForm(0)
	cds := &fakeCooldowns{}
	p := NewPipeline(&fakeSource{form: form}, cds, &fakeDispatcher{threadID: "t1"})

	_, err := p.Submit(context.Background(), "g1", form.UUID, 2, Submitter{UserID: "u1"}, []string{"Alice", ""})
	require.NoError(t, err)
	assert.Zero(t, cds.reserveCalls)
}

func TestSubmitDeniedBeforeValidation(t *testing.T) {
	form := pipelineForm(3600)
	cds := &fakeCooldowns{remaining: time.Minute}
	disp := &fakeDispatcher{threadID: "t1"}
	p := NewPipeline(&fakeSource{form: form}, cds, disp)

	_, err := p.Submit(context.Background(), "g1", form.UUID, 2, Submitter{UserID: "u1"}, []string{"Alice", ""})
	var cErr *CooldownError
	require.ErrorAs(t, err, &cErr)
	assert.Zero(t, disp.calls)
	assert.Zero(t, cds.reserveCalls)
}

func TestSubmitValidationFailureNoDispatchNoCooldown(t *testing.T) {
	form := pipelineForm(3600)
	cds := &fakeCooldowns{}
	disp := &fakeDispatcher{threadID: "t1"}
	p := NewPipeline(&fakeSource{form: form}, cds, disp)

	_, err := p.Submit(context.Background(), "g1", form.UUID, 2, Submitter{UserID: "u1"}, []string{"", "hi"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Zero(t, disp.calls)
	assert.Zero(t, cds.reserveCalls)
}

func TestSubmitDispatchFailureLeavesCooldownUncommitted(t *testing.T) {
	form := pipelineForm(3600)
	cds := &fakeCooldowns{}
	disp := &fakeDispatcher{err: &DispatchError{Op: "thread create", Err: errors.New("api down")}}
	p := NewPipeline(&fakeSource{form: form}, cds, disp)

	who := Submitter{UserID: "u1"}
	_, err := p.Submit(context.Background(), "g1", form.UUID, 2, who, []string{"Alice", ""})
	var dErr *DispatchError
	require.ErrorAs(t, err, &dErr)
	assert.Zero(t, cds.reserveCalls, "a failed dispatch must not burn the cooldown")

	// The user retries with identical answers and it goes through.
	disp.err = nil
	disp.threadID = "t2"
	threadID, err := p.Submit(context.Background(), "g1", form.UUID, 2, who, []string{"Alice", ""})
	require.NoError(t, err)
	assert.Equal(t, "t2", threadID)
	assert.True(t, cds.reserved)
}

func TestSubmitCommitFailureStillSucceeds(t *testing.T) {
	form := pipelineForm(3600)
	cds := &fakeCooldowns{reserveErr: cooldown.ErrStoreUnavailable}
	p := NewPipeline(&fakeSource{form: form}, cds, &fakeDispatcher{threadID: "t1"})

	threadID, err := p.Submit(context.Background(), "g1", form.UUID, 2, Submitter{UserID: "u1"}, []string{"Alice", ""})
	require.NoError(t, err)
	assert.Equal(t, "t1", threadID)
}

func TestPreviewDiscardsWithoutDelivery(t *testing.T) {
	form := pipelineForm(3600)
	cds := &fakeCooldowns{remaining: time.Minute, checkErr: errors.New("must not be consulted")}
	disp := &fakeDispatcher{threadID: "t1"}
	p := NewPipeline(&fakeSource{form: form}, cds, disp)

	threadID, err := p.Preview(context.Background(), "g1", form.UUID, 2, Submitter{UserID: "u1"}, []string{"Alice", ""}, false)
	require.NoError(t, err)
	assert.Empty(t, threadID)
	assert.Zero(t, disp.calls)
	assert.Zero(t, cds.reserveCalls)
}

func TestPreviewDeliversWithoutCooldown(t *testing.T) {
	form := pipelineForm(3600)
	cds := &fakeCooldowns{remaining: time.Minute, checkErr: errors.New("must not be consulted")}
	disp := &fakeDispatcher{threadID: "t1"}
	p := NewPipeline(&fakeSource{form: form}, cds, disp)

	threadID, err := p.Preview(context.Background(), "g1", form.UUID, 2, Submitter{UserID: "u1"}, []string{"Alice", ""}, true)
	require.NoError(t, err)
	assert.Equal(t, "t1", threadID)
	assert.Equal(t, 1, disp.calls)
	assert.Zero(t, cds.reserveCalls)
}

func TestPreviewValidates(t *testing.T) {
	form := pipelineForm(0)
	p := NewPipeline(&fakeSource{form: form}, &fakeCooldowns{}, &fakeDispatcher{})

	_, err := p.Preview(context.Background(), "g1", form.UUID, 2, Submitter{UserID: "u1"}, []string{"", "hi"}, true)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Name", vErr.Label)

	_, err = p.Preview(context.Background(), "g1", form.UUID, 3, Submitter{UserID: "u1"}, []string{"a", "b", "c"}, false)
	assert.ErrorIs(t, err, ErrFieldCountMismatch)
}

func TestSubmitFieldCountMismatch(t *testing.T) {
	form := pipelineForm(3600)
	disp := &fakeDispatcher{}
	p := NewPipeline(&fakeSource{form: form}, &fakeCooldowns{}, disp)

	// The modal was built against an older, three-field version.
	_, err := p.Submit(context.Background(), "g1", form.UUID, 3, Submitter{UserID: "u1"}, []string{"a", "b", "c"})
	assert.ErrorIs(t, err, ErrFieldCountMismatch)
	assert.Zero(t, disp.calls)
}
