package presenter

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/oksasatya/user-admin/internal/domain/entity"
)

// BlankInitials is shown when a name has no usable characters.
const BlankInitials = "?"

const (
	LabelActive   = "Active"
	LabelInactive = "Inactive"
)

// UserView is the client-facing representation of a user.
type UserView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	AvatarURL   *string   `json:"avatar_url"`
	IsActive    bool      `json:"is_active"`
	StatusLabel string    `json:"status_label"`
	Initials    string    `json:"initials"`
	CreatedAt   time.Time `json:"created_at"`
}

// URLFunc resolves a blob key to a public URL.
type URLFunc func(path string) string

type UserPresenter struct {
	url URLFunc
}

func NewUserPresenter(url URLFunc) *UserPresenter {
	return &UserPresenter{url: url}
}

func (p *UserPresenter) One(u entity.User) UserView {
	v := UserView{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		IsActive:    u.IsActive,
		StatusLabel: StatusLabel(u.IsActive),
		Initials:    Initials(u.Name),
		CreatedAt:   u.CreatedAt,
	}
	if u.Avatar != "" {
		url := u.Avatar
		if p.url != nil {
			url = p.url(u.Avatar)
		}
		v.AvatarURL = &url
	}
	return v
}

// Many keeps the input order.
func (p *UserPresenter) Many(users []entity.User) []UserView {
	out := make([]UserView, len(users))
	for i, u := range users {
		out[i] = p.One(u)
	}
	return out
}

func StatusLabel(active bool) string {
	if active {
		return LabelActive
	}
	return LabelInactive
}

// Initials takes the first letter of the first two whitespace separated
// words: "Jane Doe" is "JD", "Madonna" is "M".
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return BlankInitials
	}
	var b strings.Builder
	for _, w := range words[:min(2, len(words))] {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
