package usertable

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userapp "github.com/oksasatya/user-admin/internal/application"
	"github.com/oksasatya/user-admin/internal/infrastructure/memory"
	"github.com/oksasatya/user-admin/internal/infrastructure/storage"
	"github.com/oksasatya/user-admin/internal/interface/presenter"
)

type fakeBackend struct {
	mu      sync.Mutex
	users   []presenter.UserView
	err     error
	listErr error
	calls   []string
	inputs  []FormInput
	gate    chan struct{}
}

func (f *fakeBackend) record(call string) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeBackend) List(context.Context) ([]presenter.UserView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "list")
	return f.users, f.listErr
}

func (f *fakeBackend) Create(_ context.Context, in FormInput) error {
	f.inputs = append(f.inputs, in)
	return f.record("create")
}

func (f *fakeBackend) Update(_ context.Context, id string, in FormInput) error {
	f.inputs = append(f.inputs, in)
	return f.record("update " + id)
}

func (f *fakeBackend) SetStatus(_ context.Context, id, status string) error {
	return f.record("status " + id + " " + status)
}

func (f *fakeBackend) Delete(_ context.Context, id string) error {
	return f.record("delete " + id)
}

func newController(t *testing.T, b *fakeBackend) *Controller {
	t.Helper()
	c := NewController(b)
	require.NoError(t, c.Refresh(context.Background()))
	return c
}

func TestConfirmStatusChange(t *testing.T) {
	b := &fakeBackend{users: []presenter.UserView{view("ann", "Ann", true, time.Now())}}
	c := newController(t, b)

	require.NoError(t, c.Dispatch(OpenAlert{UserID: "ann", Action: AlertBlock}))
	require.NoError(t, c.Confirm(context.Background()))

	s := c.State()
	assert.Equal(t, ModeIdle, s.Mode)
	assert.Nil(t, s.Target)
	assert.Equal(t, &Notice{Kind: NoticeSuccess, Message: "User has been block"}, s.Notice)
	assert.Equal(t, []string{"list", "status ann block", "list"}, b.calls)
}

func TestCancelNeverCallsBackend(t *testing.T) {
	b := &fakeBackend{users: []presenter.UserView{view("ann", "Ann", true, time.Now())}}
	c := newController(t, b)

	require.NoError(t, c.Dispatch(OpenAlert{UserID: "ann", Action: AlertDelete}))
	require.NoError(t, c.Dispatch(Cancel{}))
	assert.Equal(t, []string{"list"}, b.calls)

	assert.ErrorIs(t, c.Confirm(context.Background()), ErrInvalidTransition)
}

func TestConfirmFailureStaysPending(t *testing.T) {
	b := &fakeBackend{users: []presenter.UserView{view("ann", "Ann", true, time.Now())}}
	c := newController(t, b)
	require.NoError(t, c.Dispatch(OpenAlert{UserID: "ann", Action: AlertDelete}))

	b.err = errors.New("connection reset")
	assert.Error(t, c.Confirm(context.Background()))
	s := c.State()
	assert.Equal(t, ModeAlertPending, s.Mode)
	assert.False(t, s.Busy)
	assert.Equal(t, NoticeError, s.Notice.Kind)

	// Retry succeeds.
	b.err = nil
	require.NoError(t, c.Confirm(context.Background()))
	assert.Equal(t, MsgDeleted, c.State().Notice.Message)
}

func TestConfirmFieldErrorsEndRequest(t *testing.T) {
	b := &fakeBackend{users: []presenter.UserView{view("ann", "Ann", true, time.Now())}}
	c := newController(t, b)
	require.NoError(t, c.Dispatch(OpenAlert{UserID: "ann", Action: AlertBlock}))

	b.err = &FieldErrors{Fields: map[string]string{"status": "must be one of: activate, block"}}
	var ferr *FieldErrors
	require.ErrorAs(t, c.Confirm(context.Background()), &ferr)

	s := c.State()
	assert.False(t, s.Busy)
	assert.Equal(t, ModeAlertPending, s.Mode)
	assert.Equal(t, &Notice{Kind: NoticeError, Message: "status must be one of: activate, block"}, s.Notice)

	b.err = nil
	require.NoError(t, c.Confirm(context.Background()), "the table accepts the next request")
	assert.Equal(t, ModeIdle, c.State().Mode)
}

func TestFieldErrorsSummary(t *testing.T) {
	e := &FieldErrors{Fields: map[string]string{"name": "is required", "email": "must be a valid email"}}
	assert.Equal(t, "email must be a valid email; name is required", e.Summary())
}

func TestConfirmNotFoundClosesAndRefreshes(t *testing.T) {
	b := &fakeBackend{users: []presenter.UserView{view("ann", "Ann", true, time.Now())}}
	c := newController(t, b)
	require.NoError(t, c.Dispatch(OpenAlert{UserID: "ann", Action: AlertDelete}))

	b.err = ErrNotFound
	b.users = []presenter.UserView{}
	assert.ErrorIs(t, c.Confirm(context.Background()), ErrNotFound)

	s := c.State()
	assert.Equal(t, ModeIdle, s.Mode)
	assert.Equal(t, &Notice{Kind: NoticeError, Message: MsgNotFound}, s.Notice)
	assert.Empty(t, s.Users)
}

func TestSubmitValidationKeepsValuesDropsSecrets(t *testing.T) {
	b := &fakeBackend{}
	c := newController(t, b)
	require.NoError(t, c.Dispatch(OpenAdd{}))

	b.err = &FieldErrors{Fields: map[string]string{"password": "must be at least 8 characters long"}}
	err := c.Submit(context.Background(), FormInput{Name: "Ann", Email: "ann@x.com", Password: "short", PasswordConfirmation: "short"})
	var ferr *FieldErrors
	require.ErrorAs(t, err, &ferr)

	s := c.State()
	assert.Equal(t, ModeAddFormOpen, s.Mode)
	assert.Equal(t, &FormState{
		Name:   "Ann",
		Email:  "ann@x.com",
		Errors: map[string]string{"password": "must be at least 8 characters long"},
	}, s.Form)
}

func TestSubmitEdit(t *testing.T) {
	b := &fakeBackend{users: []presenter.UserView{view("ann", "Ann", true, time.Now())}}
	c := newController(t, b)
	require.NoError(t, c.Dispatch(OpenEdit{UserID: "ann"}))

	require.NoError(t, c.Submit(context.Background(), FormInput{Name: "Ann Lee", Email: "ann@x.com"}))
	s := c.State()
	assert.Equal(t, ModeIdle, s.Mode)
	assert.Nil(t, s.Form)
	assert.Equal(t, MsgSaved, s.Notice.Message)
	assert.Contains(t, b.calls, "update ann")
}

func TestSubmitWithoutFormIsRejected(t *testing.T) {
	c := newController(t, &fakeBackend{})
	assert.ErrorIs(t, c.Submit(context.Background(), FormInput{}), ErrInvalidTransition)
}

func TestConcurrentRequestsAreRejected(t *testing.T) {
	b := &fakeBackend{users: []presenter.UserView{view("ann", "Ann", true, time.Now())}}
	c := newController(t, b)
	require.NoError(t, c.Dispatch(OpenAlert{UserID: "ann", Action: AlertActivate}))

	b.gate = make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- c.Confirm(context.Background()) }()

	require.Eventually(t, func() bool { return c.State().Busy }, time.Second, time.Millisecond)
	assert.ErrorIs(t, c.Confirm(context.Background()), ErrBusy)
	assert.ErrorIs(t, c.Refresh(context.Background()), ErrBusy)
	assert.ErrorIs(t, c.Dispatch(Cancel{}), ErrBusy)

	close(b.gate)
	require.NoError(t, <-done)
	assert.False(t, c.State().Busy)
}

func TestServiceBackendLifecycle(t *testing.T) {
	blobs := storage.NewMemoryStore()
	svc := userapp.NewService(memory.NewUserRepository(), blobs, nil)
	c := NewController(NewServiceBackend(svc, presenter.NewUserPresenter(blobs.URL)))
	ctx := context.Background()

	require.NoError(t, c.Refresh(ctx))
	require.NoError(t, c.Dispatch(OpenAdd{}))
	require.NoError(t, c.Submit(ctx, FormInput{
		Name: "Ann Lee", Email: "ann@x.com", Password: "password1", PasswordConfirmation: "password1",
	}))

	s := c.State()
	require.Len(t, s.Users, 1)
	ann := s.Users[0]
	assert.Equal(t, "AL", ann.Initials)
	assert.True(t, ann.IsActive)

	// Duplicate email is a field error and the form stays open.
	require.NoError(t, c.Dispatch(OpenAdd{}))
	err := c.Submit(ctx, FormInput{Name: "Other", Email: "ANN@x.com", Password: "password1", PasswordConfirmation: "password1"})
	var ferr *FieldErrors
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "has already been taken", c.State().Form.Errors["email"])
	require.NoError(t, c.Dispatch(Cancel{}))

	require.NoError(t, c.Dispatch(OpenAlert{UserID: ann.ID, Action: AlertBlock}))
	require.NoError(t, c.Confirm(ctx))
	assert.False(t, c.State().Users[0].IsActive)

	require.NoError(t, c.Dispatch(OpenAlert{UserID: ann.ID, Action: AlertDelete}))
	require.NoError(t, c.Confirm(ctx))
	assert.Empty(t, c.State().Users)

	// Deleting again through a stale handle reports not found.
	assert.ErrorIs(t, NewServiceBackend(svc, nil).Delete(ctx, ann.ID), ErrNotFound)
}
