package usertable

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/oksasatya/user-admin/internal/interface/presenter"
)

// Notice copy shown after each request.
const (
	MsgSaved    = "user has been saved successfully"
	MsgDeleted  = "User has been deleted successfully"
	MsgNotFound = "User not found"
)

// ErrNotFound is returned by a Backend when the user no longer exists.
var ErrNotFound = errors.New("user not found")

// FieldErrors is returned by a Backend for user-correctable input.
type FieldErrors struct {
	Fields map[string]string
}

func (e *FieldErrors) Error() string { return fmt.Sprintf("invalid fields: %v", e.Fields) }

// Summary joins the field messages in field order, e.g. "status must be ...".
func (e *FieldErrors) Summary() string {
	parts := make([]string, 0, len(e.Fields))
	for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

// FormInput is what the add/edit sheet submits.
type FormInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
	ImageName            string
	Image                []byte
}

// Backend performs the requests behind the table.
type Backend interface {
	List(ctx context.Context) ([]presenter.UserView, error)
	Create(ctx context.Context, in FormInput) error
	Update(ctx context.Context, id string, in FormInput) error
	SetStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

// Controller owns a State and runs one request at a time against a Backend.
// Calls made while a request is in flight fail with ErrBusy.
type Controller struct {
	mu      sync.Mutex
	state   State
	backend Backend
}

func NewController(b Backend) *Controller {
	return &Controller{state: NewState(), backend: b}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies a local action such as opening a dialog or sorting.
func (c *Controller) Dispatch(a Action) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(a)
}

func (c *Controller) apply(a Action) error {
	next, err := Reduce(c.state, a)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// begin marks a request in flight after check accepts the current state.
func (c *Controller) begin(check func(State) error, form *FormState) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Busy {
		return c.state, ErrBusy
	}
	if check != nil {
		if err := check(c.state); err != nil {
			return c.state, err
		}
	}
	snapshot := c.state
	return snapshot, c.apply(BeginRequest{Form: form})
}

// finish ends the in-flight request with a. An outcome the current mode
// rejects ends the request as a failure so Busy is always cleared.
func (c *Controller) finish(a Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.apply(a); err != nil {
		c.state.Busy = false
		c.state.Notice = &Notice{Kind: NoticeError, Message: err.Error()}
	}
}

// Refresh reloads the rows.
func (c *Controller) Refresh(ctx context.Context) error {
	if _, err := c.begin(nil, nil); err != nil {
		return err
	}
	users, err := c.backend.List(ctx)
	if err != nil {
		c.finish(RequestFailed{Message: err.Error()})
		return err
	}
	c.finish(Loaded{Users: users})
	return nil
}

// Confirm runs the pending alert action.
func (c *Controller) Confirm(ctx context.Context) error {
	snap, err := c.begin(func(s State) error {
		if s.Mode != ModeAlertPending || s.Target == nil {
			return fmt.Errorf("%w: no action awaiting confirmation", ErrInvalidTransition)
		}
		return nil
	}, nil)
	if err != nil {
		return err
	}

	id := snap.Target.ID
	msg := MsgDeleted
	if snap.Alert == AlertDelete {
		err = c.backend.Delete(ctx, id)
	} else {
		err = c.backend.SetStatus(ctx, id, string(snap.Alert))
		msg = "User has been " + string(snap.Alert)
	}
	return c.settle(ctx, snap, err, msg)
}

// Submit sends the open add or edit form.
func (c *Controller) Submit(ctx context.Context, in FormInput) error {
	snap, err := c.begin(func(s State) error {
		if s.Mode != ModeAddFormOpen && s.Mode != ModeEditFormOpen {
			return fmt.Errorf("%w: no form is open", ErrInvalidTransition)
		}
		return nil
	}, &FormState{Name: in.Name, Email: in.Email})
	if err != nil {
		return err
	}

	if snap.Mode == ModeAddFormOpen {
		err = c.backend.Create(ctx, in)
	} else {
		err = c.backend.Update(ctx, snap.Target.ID, in)
	}
	return c.settle(ctx, snap, err, MsgSaved)
}

// settle applies the outcome of a mutation. Successful and not-found outcomes
// reload the rows before the request ends; a failed reload keeps the old rows.
// Field errors outside a form have nowhere to show and end as a plain failure.
func (c *Controller) settle(ctx context.Context, snap State, err error, msg string) error {
	var ferr *FieldErrors
	switch {
	case err == nil:
		c.finish(RequestSucceeded{Message: msg, Users: c.reload(ctx)})
		return nil
	case errors.As(err, &ferr) && (snap.Mode == ModeAddFormOpen || snap.Mode == ModeEditFormOpen):
		c.finish(ValidationFailed{Errors: ferr.Fields})
	case errors.As(err, &ferr):
		c.finish(RequestFailed{Message: ferr.Summary()})
	case errors.Is(err, ErrNotFound):
		c.finish(TargetGone{Message: MsgNotFound, Users: c.reload(ctx)})
	default:
		c.finish(RequestFailed{Message: err.Error()})
	}
	return err
}

func (c *Controller) reload(ctx context.Context) []presenter.UserView {
	users, err := c.backend.List(ctx)
	if err != nil {
		return nil
	}
	if users == nil {
		users = []presenter.UserView{}
	}
	return users
}
