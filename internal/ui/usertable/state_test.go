package usertable

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-admin/internal/interface/presenter"
)

func view(id, name string, active bool, created time.Time) presenter.UserView {
	return presenter.UserView{
		ID:          id,
		Name:        name,
		Email:       id + "@x.com",
		IsActive:    active,
		StatusLabel: presenter.StatusLabel(active),
		Initials:    presenter.Initials(name),
		CreatedAt:   created,
	}
}

func loaded(t *testing.T, users ...presenter.UserView) State {
	t.Helper()
	s, err := Reduce(NewState(), BeginRequest{})
	require.NoError(t, err)
	s, err = Reduce(s, Loaded{Users: users})
	require.NoError(t, err)
	return s
}

func must(t *testing.T, s State, a Action) State {
	t.Helper()
	next, err := Reduce(s, a)
	require.NoError(t, err)
	return next
}

func TestOpenAndCancelDialogs(t *testing.T) {
	s := loaded(t, view("ann", "Ann Lee", true, time.Now()))

	alert := must(t, s, OpenAlert{UserID: "ann", Action: AlertBlock})
	assert.Equal(t, ModeAlertPending, alert.Mode)
	assert.Equal(t, AlertBlock, alert.Alert)
	require.NotNil(t, alert.Target)
	assert.Equal(t, "ann", alert.Target.ID)

	idle := must(t, alert, Cancel{})
	assert.Equal(t, ModeIdle, idle.Mode)
	assert.Nil(t, idle.Target)
	assert.Empty(t, idle.Alert)

	edit := must(t, s, OpenEdit{UserID: "ann"})
	assert.Equal(t, ModeEditFormOpen, edit.Mode)
	assert.Equal(t, &FormState{Name: "Ann Lee", Email: "ann@x.com"}, edit.Form)

	add := must(t, s, OpenAdd{})
	assert.Equal(t, ModeAddFormOpen, add.Mode)
	assert.Equal(t, &FormState{}, add.Form)
	assert.Nil(t, add.Target)
}

func TestInvalidTransitions(t *testing.T) {
	s := loaded(t, view("ann", "Ann", true, time.Now()))

	_, err := Reduce(s, Cancel{})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = Reduce(s, OpenAlert{UserID: "ann", Action: "archive"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = Reduce(s, OpenEdit{UserID: "nobody"})
	assert.ErrorIs(t, err, ErrUnknownUser)

	open := must(t, s, OpenAdd{})
	_, err = Reduce(open, OpenAlert{UserID: "ann", Action: AlertDelete})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	for _, a := range []Action{Loaded{}, RequestSucceeded{}, RequestFailed{}, TargetGone{}} {
		_, err = Reduce(s, a)
		assert.ErrorIs(t, err, ErrInvalidTransition, "%T", a)
	}
	_, err = Reduce(s, ValidationFailed{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBusyBlocksDialogs(t *testing.T) {
	s := loaded(t, view("ann", "Ann", true, time.Now()))
	alert := must(t, s, OpenAlert{UserID: "ann", Action: AlertDelete})
	busy := must(t, alert, BeginRequest{})

	_, err := Reduce(busy, BeginRequest{})
	assert.ErrorIs(t, err, ErrBusy)
	_, err = Reduce(busy, Cancel{})
	assert.ErrorIs(t, err, ErrBusy)

	// Table controls stay usable while a request runs.
	filtered := must(t, busy, SetFilter{Text: "a"})
	assert.Equal(t, "a", filtered.Table.Filter)
}

func TestRequestOutcomes(t *testing.T) {
	now := time.Now()
	s := loaded(t, view("ann", "Ann", true, now), view("bea", "Bea", true, now))
	alert := must(t, s, OpenAlert{UserID: "ann", Action: AlertDelete})

	failed := must(t, must(t, alert, BeginRequest{}), RequestFailed{Message: "boom"})
	assert.Equal(t, ModeAlertPending, failed.Mode)
	assert.False(t, failed.Busy)
	assert.Equal(t, &Notice{Kind: NoticeError, Message: "boom"}, failed.Notice)

	done := must(t, must(t, failed, BeginRequest{}), RequestSucceeded{
		Message: MsgDeleted,
		Users:   []presenter.UserView{view("bea", "Bea", true, now)},
	})
	assert.Equal(t, ModeIdle, done.Mode)
	assert.Nil(t, done.Target)
	assert.False(t, done.Busy)
	assert.Equal(t, &Notice{Kind: NoticeSuccess, Message: MsgDeleted}, done.Notice)
	assert.Len(t, done.Users, 1)

	gone := must(t, must(t, alert, BeginRequest{}), TargetGone{Message: MsgNotFound})
	assert.Equal(t, ModeIdle, gone.Mode)
	assert.Equal(t, NoticeError, gone.Notice.Kind)
	assert.Len(t, gone.Users, 2)

	assert.Nil(t, must(t, gone, DismissNotice{}).Notice)
}

func TestValidationFailureKeepsForm(t *testing.T) {
	s := loaded(t)
	add := must(t, s, OpenAdd{})
	busy := must(t, add, BeginRequest{Form: &FormState{Name: "Ann", Email: "bad"}})

	failed := must(t, busy, ValidationFailed{Errors: map[string]string{"email": "must be a valid email"}})
	assert.Equal(t, ModeAddFormOpen, failed.Mode)
	assert.False(t, failed.Busy)
	assert.Equal(t, "Ann", failed.Form.Name)
	assert.Equal(t, "bad", failed.Form.Email)
	assert.Equal(t, "must be a valid email", failed.Form.Errors["email"])
}

func TestStateSerializes(t *testing.T) {
	s := loaded(t, view("ann", "Ann", true, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	s = must(t, s, OpenEdit{UserID: "ann"})

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"mode":"edit_form_open"`)
	assert.NotContains(t, string(b), "password")

	var back State
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, s.Mode, back.Mode)
	assert.Equal(t, s.Form, back.Form)
	assert.Equal(t, s.Target.ID, back.Target.ID)
}
