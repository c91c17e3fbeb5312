package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mailtpl "github.com/oksasatya/user-management/pkg/mailer/templates"
)

type sent struct {
	to, subject, text, html string
}

type recordingSender struct {
	msgs []sent
	err  error
}

func (r *recordingSender) Send(_ context.Context, to, subject, text, html string) error {
	r.msgs = append(r.msgs, sent{to, subject, text, html})
	return r.err
}

func TestDeliverRendersTemplate(t *testing.T) {
	s := &recordingSender{}
	job := EmailJob{
		To:       "jane@example.com",
		Template: mailtpl.Welcome,
		Data:     map[string]any{"Name": "Jane"},
	}

	require.NoError(t, Deliver(context.Background(), s, job))
	require.Len(t, s.msgs, 1)
	assert.Equal(t, "jane@example.com", s.msgs[0].to)
	assert.NotEmpty(t, s.msgs[0].subject)
	assert.Contains(t, s.msgs[0].text, "jane@example.com")
	assert.NotEmpty(t, s.msgs[0].html)
}

func TestDeliverRawMessage(t *testing.T) {
	s := &recordingSender{}
	require.NoError(t, Deliver(context.Background(), s, EmailJob{To: "a@example.com", Subject: "hi", Text: "body"}))
	assert.Equal(t, []sent{{"a@example.com", "hi", "body", ""}}, s.msgs)
}

func TestDeliverRejectsInvalidJobs(t *testing.T) {
	s := &recordingSender{}
	ctx := context.Background()

	assert.ErrorIs(t, Deliver(ctx, s, EmailJob{Subject: "hi", Text: "x"}), ErrInvalidJob)
	assert.ErrorIs(t, Deliver(ctx, s, EmailJob{To: "a@example.com", Template: "login_otp"}), ErrInvalidJob)
	assert.ErrorIs(t, Deliver(ctx, s, EmailJob{To: "a@example.com"}), ErrInvalidJob)
	assert.Empty(t, s.msgs)
}

func TestDeliverPassesSendErrors(t *testing.T) {
	boom := errors.New("mailgun down")
	s := &recordingSender{err: boom}

	err := Deliver(context.Background(), s, EmailJob{To: "a@example.com", Subject: "hi", Text: "x"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidJob)
}

func TestEnsureRecipient(t *testing.T) {
	job := EmailJob{To: "a@example.com", Data: map[string]any{"Email": "b@example.com"}}
	job.EnsureRecipient()
	assert.Equal(t, "b@example.com", job.Data["Email"])
	assert.Equal(t, "a@example.com", job.Data["RecipientEmail"])
}
