// Package usertable models the admin user table: a serializable state, a pure
// reducer over discrete actions, and a controller that runs the requests.
// It has no rendering of its own; a front-end adapter embeds a Controller,
// typically over ServiceBackend, and draws the State it exposes.
package usertable

import (
	"errors"
	"fmt"

	"github.com/oksasatya/user-admin/internal/interface/presenter"
)

var (
	ErrInvalidTransition = errors.New("usertable: invalid transition")
	ErrBusy              = errors.New("usertable: a request is already in flight")
	ErrUnknownUser       = errors.New("usertable: user is not in the table")
)

type Mode string

const (
	ModeIdle         Mode = "idle"
	ModeAlertPending Mode = "alert_pending"
	ModeAddFormOpen  Mode = "add_form_open"
	ModeEditFormOpen Mode = "edit_form_open"
)

// AlertAction is the row action waiting for confirmation.
type AlertAction string

const (
	AlertDelete   AlertAction = "delete"
	AlertActivate AlertAction = "activate"
	AlertBlock    AlertAction = "block"
)

func (a AlertAction) valid() bool {
	switch a {
	case AlertDelete, AlertActivate, AlertBlock:
		return true
	}
	return false
}

// FormState holds what the add/edit sheet shows. Passwords are never kept.
type FormState struct {
	Name   string            `json:"name"`
	Email  string            `json:"email"`
	Errors map[string]string `json:"errors,omitempty"`
}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a one-shot toast.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

type State struct {
	Mode   Mode                 `json:"mode"`
	Alert  AlertAction          `json:"alert,omitempty"`
	Target *presenter.UserView  `json:"target,omitempty"`
	Form   *FormState           `json:"form,omitempty"`
	Busy   bool                 `json:"busy"`
	Notice *Notice              `json:"notice,omitempty"`
	Table  TableState           `json:"table"`
	Users  []presenter.UserView `json:"users"`
}

// NewState returns an idle, empty table.
func NewState() State {
	return State{Mode: ModeIdle, Users: []presenter.UserView{}}
}

// Action is a discrete event applied by Reduce.
type Action interface{ isAction() }

type OpenAdd struct{}

type OpenEdit struct{ UserID string }

type OpenAlert struct {
	UserID string
	Action AlertAction
}

type Cancel struct{}

// BeginRequest marks a request in flight. Form, when set, replaces the form
// so entered values survive a failure.
type BeginRequest struct{ Form *FormState }

// Loaded ends a refresh.
type Loaded struct{ Users []presenter.UserView }

// RequestSucceeded closes any dialog. Users replaces the rows when non-nil.
type RequestSucceeded struct {
	Message string
	Users   []presenter.UserView
}

type ValidationFailed struct{ Errors map[string]string }

// TargetGone reports that the row acted on no longer exists.
type TargetGone struct {
	Message string
	Users   []presenter.UserView
}

type RequestFailed struct{ Message string }

type SetFilter struct{ Text string }

type ToggleSort struct{ Column Column }

type SetPage struct{ Page int }

type DismissNotice struct{}

func (OpenAdd) isAction()          {}
func (OpenEdit) isAction()         {}
func (OpenAlert) isAction()        {}
func (Cancel) isAction()           {}
func (BeginRequest) isAction()     {}
func (Loaded) isAction()           {}
func (RequestSucceeded) isAction() {}
func (ValidationFailed) isAction() {}
func (TargetGone) isAction()       {}
func (RequestFailed) isAction()    {}
func (SetFilter) isAction()        {}
func (ToggleSort) isAction()       {}
func (SetPage) isAction()          {}
func (DismissNotice) isAction()    {}

// Reduce applies a to s. On error s is returned unchanged.
func Reduce(s State, a Action) (State, error) {
	next := s
	switch a := a.(type) {
	case OpenAdd:
		if err := s.requireIdle(); err != nil {
			return s, err
		}
		next.Mode = ModeAddFormOpen
		next.Form = &FormState{}

	case OpenEdit:
		if err := s.requireIdle(); err != nil {
			return s, err
		}
		u, err := s.find(a.UserID)
		if err != nil {
			return s, err
		}
		next.Mode = ModeEditFormOpen
		next.Target = u
		next.Form = &FormState{Name: u.Name, Email: u.Email}

	case OpenAlert:
		if err := s.requireIdle(); err != nil {
			return s, err
		}
		if !a.Action.valid() {
			return s, fmt.Errorf("%w: unknown alert action %q", ErrInvalidTransition, a.Action)
		}
		u, err := s.find(a.UserID)
		if err != nil {
			return s, err
		}
		next.Mode = ModeAlertPending
		next.Alert = a.Action
		next.Target = u

	case Cancel:
		if s.Busy {
			return s, ErrBusy
		}
		if s.Mode == ModeIdle {
			return s, fmt.Errorf("%w: nothing to cancel", ErrInvalidTransition)
		}
		next = next.closed()

	case BeginRequest:
		if s.Busy {
			return s, ErrBusy
		}
		next.Busy = true
		next.Notice = nil
		if a.Form != nil {
			f := *a.Form
			next.Form = &f
		}

	case Loaded:
		if !s.Busy {
			return s, fmt.Errorf("%w: no request in flight", ErrInvalidTransition)
		}
		next.Busy = false
		next = next.withUsers(a.Users)

	case RequestSucceeded:
		if !s.Busy {
			return s, fmt.Errorf("%w: no request in flight", ErrInvalidTransition)
		}
		next = next.closed()
		next.Busy = false
		if a.Message != "" {
			next.Notice = &Notice{Kind: NoticeSuccess, Message: a.Message}
		}
		if a.Users != nil {
			next = next.withUsers(a.Users)
		}

	case ValidationFailed:
		if !s.Busy || (s.Mode != ModeAddFormOpen && s.Mode != ModeEditFormOpen) {
			return s, fmt.Errorf("%w: validation errors outside a form request", ErrInvalidTransition)
		}
		next.Busy = false
		f := FormState{}
		if s.Form != nil {
			f = *s.Form
		}
		f.Errors = a.Errors
		next.Form = &f

	case TargetGone:
		if !s.Busy {
			return s, fmt.Errorf("%w: no request in flight", ErrInvalidTransition)
		}
		next = next.closed()
		next.Busy = false
		next.Notice = &Notice{Kind: NoticeError, Message: a.Message}
		if a.Users != nil {
			next = next.withUsers(a.Users)
		}

	case RequestFailed:
		if !s.Busy {
			return s, fmt.Errorf("%w: no request in flight", ErrInvalidTransition)
		}
		next.Busy = false
		next.Notice = &Notice{Kind: NoticeError, Message: a.Message}

	case SetFilter:
		next.Table.Filter = a.Text
		next.Table.Page = 0

	case ToggleSort:
		t, err := s.Table.toggleSort(a.Column)
		if err != nil {
			return s, err
		}
		next.Table = t

	case SetPage:
		next.Table.Page = a.Page
		next.Table = next.Table.clamp(len(next.Table.Rows(next.Users)))

	case DismissNotice:
		next.Notice = nil

	default:
		return s, fmt.Errorf("%w: unknown action %T", ErrInvalidTransition, a)
	}
	return next, nil
}

func (s State) requireIdle() error {
	if s.Busy {
		return ErrBusy
	}
	if s.Mode != ModeIdle {
		return fmt.Errorf("%w: %s is open", ErrInvalidTransition, s.Mode)
	}
	return nil
}

func (s State) find(id string) (*presenter.UserView, error) {
	for i := range s.Users {
		if s.Users[i].ID == id {
			u := s.Users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownUser, id)
}

// closed returns s back in idle with no selection and no form.
func (s State) closed() State {
	s.Mode = ModeIdle
	s.Alert = ""
	s.Target = nil
	s.Form = nil
	return s
}

func (s State) withUsers(users []presenter.UserView) State {
	s.Users = append([]presenter.UserView{}, users...)
	s.Table = s.Table.clamp(len(s.Table.Rows(s.Users)))
	return s
}

// Visible returns the rows on the current page after filtering and sorting.
func (s State) Visible() []presenter.UserView {
	return s.Table.PageRows(s.Users)
}
