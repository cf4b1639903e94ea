package templates

import (
	"time"

	"github.com/oksasatya/user-admin/config"
)

type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithStatus(label string) Option { return func(d *EmailData) { d.Status = label } }

// NewBaseEmailData fills the common fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		AppName:        cfg.AppName,

		LogoURL:        cfg.LogoURL,
		SupportURL:     cfg.SupportURL,
		PrivacyURL:     cfg.PrivacyURL,
		UnsubscribeURL: cfg.UnsubscribeURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewAccountCreatedData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(cfg, AccountCreated, name, email, opts...))
}

// NewStatusChangedData picks the blocked or activated type from active.
func NewStatusChangedData(cfg *config.Config, name, email string, active bool, opts ...Option) map[string]any {
	typ, label := AccountBlocked, "Inactive"
	if active {
		typ, label = AccountActivated, "Active"
	}
	opts = append([]Option{WithStatus(label)}, opts...)
	return ToMap(NewBaseEmailData(cfg, typ, name, email, opts...))
}
