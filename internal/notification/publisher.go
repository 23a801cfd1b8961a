package notification

import (
	"context"
	"time"

	"github.com/meetsync/reservation-service/pkg/rabbitmq"
)

// Message is the payload handed to the delivery side (push, e-mail, in-app);
// the service only enqueues it.
type Message struct {
	UserID   string    `json:"user_id"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	FromUser string    `json:"from_user"`
	SentAt   time.Time `json:"sent_at"`
}

// Sender publishes notifications to the notifications exchange. It
// implements service.Notifier.
type Sender struct {
	publisher *rabbitmq.Publisher
}

func NewSender(publisher *rabbitmq.Publisher) *Sender {
	return &Sender{publisher: publisher}
}

func (s *Sender) Notify(ctx context.Context, userID, title, message, fromUser string) error {
	return s.publisher.Publish("notification.user."+userID, Message{
		UserID:   userID,
		Title:    title,
		Message:  message,
		FromUser: fromUser,
		SentAt:   time.Now(),
	})
}
