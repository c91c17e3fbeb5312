package templates

import (
	"strings"
	"time"
)

// Brand carries the sender identity rendered into every email.
type Brand struct {
	CompanyName string
	AppName     string
	SupportURL  string
}

// Option pattern
type Option func(*EmailData)

func WithUsername(username string) Option { return func(d *EmailData) { d.Username = username } }

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

// NewLifecycleData fills the common fields for an account lifecycle email
// and applies opts.
func NewLifecycleData(b Brand, typ, name, email string, opts ...Option) map[string]any {
	d := EmailData{
		Name:           strings.TrimSpace(name),
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName: b.CompanyName,
		AppName:     b.AppName,
		SupportURL:  b.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}
