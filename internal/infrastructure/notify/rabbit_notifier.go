package notify

import (
	"context"
	"time"

	"github.com/oksasatya/user-admin/config"
	"github.com/oksasatya/user-admin/internal/domain/entity"
	"github.com/oksasatya/user-admin/pkg/mailer"
	mailtpl "github.com/oksasatya/user-admin/pkg/mailer/templates"
)

// Publisher is satisfied by helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// EmailNotifier queues account emails for the email worker.
type EmailNotifier struct {
	pub Publisher
	cfg *config.Config
	now func() time.Time
}

func NewEmailNotifier(pub Publisher, cfg *config.Config) *EmailNotifier {
	return &EmailNotifier{pub: pub, cfg: cfg, now: time.Now}
}

func (n *EmailNotifier) AccountCreated(ctx context.Context, u *entity.User) error {
	data := mailtpl.NewAccountCreatedData(n.cfg, u.Name, u.Email, mailtpl.WithTime(n.now()))
	return n.publish(ctx, u.Email, data)
}

func (n *EmailNotifier) StatusChanged(ctx context.Context, u *entity.User) error {
	data := mailtpl.NewStatusChangedData(n.cfg, u.Name, u.Email, u.IsActive, mailtpl.WithTime(n.now()))
	return n.publish(ctx, u.Email, data)
}

func (n *EmailNotifier) publish(ctx context.Context, to string, data map[string]any) error {
	return n.pub.PublishJSON(ctx, mailer.EmailJob{
		To:       to,
		Template: mailtpl.Universal,
		Data:     data,
	})
}
