package entity

import (
	"errors"
	"strings"
)

// Status is an explicit account status change requested by an admin.
type Status string

const (
	StatusActivate Status = "activate"
	StatusBlock    Status = "block"
)

var ErrInvalidStatus = errors.New("status must be one of: activate, block")

// ParseStatus normalizes s to lowercase and accepts only activate or block.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusActivate, StatusBlock:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Active reports the is_active value the status maps to.
func (s Status) Active() bool { return s == StatusActivate }
