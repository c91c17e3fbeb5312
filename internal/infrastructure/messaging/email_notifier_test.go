package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-management/internal/application"
	"github.com/oksasatya/user-management/internal/domain/entity"
	"github.com/oksasatya/user-management/pkg/mailer"
	mailtpl "github.com/oksasatya/user-management/pkg/mailer/templates"
)

type capturePublisher struct {
	jobs []mailer.EmailJob
	err  error
}

func (c *capturePublisher) PublishJSON(_ context.Context, body any) error {
	c.jobs = append(c.jobs, body.(mailer.EmailJob))
	return c.err
}

func newNotifier(p Publisher) *EmailNotifier {
	n := NewEmailNotifier(p, mailtpl.Brand{CompanyName: "Acme", AppName: "Users"})
	n.Now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC) }
	return n
}

func TestNotifyPublishesTemplateJob(t *testing.T) {
	p := &capturePublisher{}
	u := &entity.User{Username: "jane", Email: "jane@example.com", DisplayName: "Jane Doe"}

	require.NoError(t, newNotifier(p).Notify(context.Background(), application.EventRegistered, u))
	require.Len(t, p.jobs, 1)

	job := p.jobs[0]
	assert.Equal(t, "jane@example.com", job.To)
	assert.Equal(t, mailtpl.Welcome, job.Template)
	assert.Equal(t, "Jane Doe", job.Data["Name"])
	assert.Equal(t, "jane", job.Data["Username"])
	assert.Equal(t, "Acme", job.Data["CompanyName"])
	assert.Equal(t, "02 January 2024, 03:04", job.Data["Time"])
}

func TestNotifyTemplatesPerEvent(t *testing.T) {
	p := &capturePublisher{}
	n := newNotifier(p)
	u := &entity.User{Email: "jane@example.com"}
	ctx := context.Background()

	require.NoError(t, n.Notify(ctx, application.EventDeactivated, u))
	require.NoError(t, n.Notify(ctx, application.EventReactivated, u))
	require.NoError(t, n.Notify(ctx, "updated", u))

	require.Len(t, p.jobs, 2)
	assert.Equal(t, mailtpl.AccountDeactivated, p.jobs[0].Template)
	assert.Equal(t, mailtpl.AccountReactivated, p.jobs[1].Template)
}

func TestNotifyWrapsPublishError(t *testing.T) {
	boom := errors.New("channel closed")
	err := newNotifier(&capturePublisher{err: boom}).Notify(context.Background(), application.EventRegistered, &entity.User{Email: "a@example.com"})
	assert.ErrorIs(t, err, boom)
}
