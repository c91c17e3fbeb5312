// Package messaging turns user lifecycle events into queued email jobs.
package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/oksasatya/user-management/internal/application"
	"github.com/oksasatya/user-management/internal/domain/entity"
	"github.com/oksasatya/user-management/pkg/mailer"
	mailtpl "github.com/oksasatya/user-management/pkg/mailer/templates"
)

// Publisher is satisfied by helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

var eventTemplates = map[string]string{
	application.EventRegistered:  mailtpl.Welcome,
	application.EventDeactivated: mailtpl.AccountDeactivated,
	application.EventReactivated: mailtpl.AccountReactivated,
}

type EmailNotifier struct {
	Publisher Publisher
	Brand     mailtpl.Brand
	Now       func() time.Time
}

func NewEmailNotifier(p Publisher, brand mailtpl.Brand) *EmailNotifier {
	return &EmailNotifier{Publisher: p, Brand: brand, Now: time.Now}
}

// Notify publishes the email job for event. Events without a template are ignored.
func (n *EmailNotifier) Notify(ctx context.Context, event string, u *entity.User) error {
	tpl, ok := eventTemplates[event]
	if !ok || u.Email == "" {
		return nil
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: tpl,
		Data: mailtpl.NewLifecycleData(n.Brand, tpl, u.DisplayName, u.Email,
			mailtpl.WithUsername(u.Username),
			mailtpl.WithTime(n.Now()),
		),
	}
	if err := n.Publisher.PublishJSON(ctx, job); err != nil {
		return fmt.Errorf("publish %s email: %w", tpl, err)
	}
	return nil
}

var _ application.Notifier = (*EmailNotifier)(nil)
