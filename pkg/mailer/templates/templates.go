package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Lifecycle template names. Each has .subject, .text and .html files.
const (
	Welcome            = "welcome"
	AccountDeactivated = "account_deactivated"
	AccountReactivated = "account_reactivated"
)

var names = []string{Welcome, AccountDeactivated, AccountReactivated}

// EmailData is the payload every lifecycle template reads from.
type EmailData struct {
	Name           string `json:"Name"`
	Username       string `json:"Username"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`

	CompanyName string `json:"CompanyName"`
	AppName     string `json:"AppName"`
	SupportURL  string `json:"SupportURL"`

	Time   string    `json:"Time"`
	TimeAt time.Time `json:"TimeAt"`
}

// ToMap flattens d into the loosely typed form carried on the queue.
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// Message is a rendered email.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

type set struct {
	subject *texttpl.Template
	text    *texttpl.Template
	html    *htmpl.Template
}

var (
	loadOnce sync.Once
	sets     map[string]set
	loadErr  error
)

// orDefault backs {{ .Value | default "Fallback" }}.
func orDefault(fallback, value any) any {
	if s, ok := value.(string); ok {
		if strings.TrimSpace(s) == "" {
			return fallback
		}
		return s
	}
	if rv := reflect.ValueOf(value); !rv.IsValid() || rv.IsZero() {
		return fallback
	}
	return value
}

func funcs() map[string]any {
	return map[string]any{
		"now":     func() time.Time { return time.Now().UTC() },
		"upper":   strings.ToUpper,
		"default": orDefault,
	}
}

func load() {
	sets = make(map[string]set, len(names))
	for _, n := range names {
		var s set
		if s.subject, loadErr = texttpl.New(n+".subject.tmpl").Funcs(funcs()).ParseFS(FS, n+".subject.tmpl"); loadErr != nil {
			return
		}
		if s.text, loadErr = texttpl.New(n+".text.tmpl").Funcs(funcs()).ParseFS(FS, n+".text.tmpl"); loadErr != nil {
			return
		}
		if s.html, loadErr = htmpl.New(n+".html.tmpl").Funcs(funcs()).ParseFS(FS, n+".html.tmpl"); loadErr != nil {
			return
		}
		sets[n] = s
	}
}

// Known reports whether name has an embedded template set.
func Known(name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Render executes the named set against data. Templates are parsed once on
// first use.
func Render(name string, data any) (Message, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return Message{}, fmt.Errorf("load templates: %w", loadErr)
	}
	s, ok := sets[name]
	if !ok {
		return Message{}, fmt.Errorf("unknown template %q", name)
	}

	var subj, text, html bytes.Buffer
	if err := s.subject.Execute(&subj, data); err != nil {
		return Message{}, fmt.Errorf("%s subject: %w", name, err)
	}
	if err := s.text.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("%s text: %w", name, err)
	}
	if err := s.html.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("%s html: %w", name, err)
	}
	return Message{Subject: strings.TrimSpace(subj.String()), Text: text.String(), HTML: html.String()}, nil
}
