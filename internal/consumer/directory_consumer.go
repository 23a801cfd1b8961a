package consumer

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/meetsync/reservation-service/internal/models"
	"github.com/meetsync/reservation-service/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DirectoryConsumer keeps the local room and user replicas in sync with the
// corporate directory service.
type DirectoryConsumer struct {
	rooms repository.RoomRepository
	users repository.UserRepository
}

func NewDirectoryConsumer(rooms repository.RoomRepository, users repository.UserRepository) *DirectoryConsumer {
	return &DirectoryConsumer{rooms: rooms, users: users}
}

// Start listens for directory messages and upserts them into the local DB.
func (dc *DirectoryConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			dc.handleMessage(msg)
		}
		log.Println("[DirectoryConsumer] channel closed, stopping consumer")
	}()
}

func (dc *DirectoryConsumer) handleMessage(msg amqp.Delivery) {
	ctx := context.Background()

	switch {
	case strings.HasPrefix(msg.RoutingKey, "directory.room."):
		var room models.Room
		if err := json.Unmarshal(msg.Body, &room); err != nil {
			log.Printf("[DirectoryConsumer] failed to unmarshal room: %v", err)
			msg.Nack(false, false)
			return
		}
		if err := dc.rooms.Upsert(ctx, &room); err != nil {
			log.Printf("[DirectoryConsumer] failed to upsert room %d: %v", room.ID, err)
			msg.Nack(false, true) // requeue
			return
		}
		log.Printf("[DirectoryConsumer] synced room %d: %s", room.ID, room.Name)

	case strings.HasPrefix(msg.RoutingKey, "directory.user."):
		var user models.User
		if err := json.Unmarshal(msg.Body, &user); err != nil {
			log.Printf("[DirectoryConsumer] failed to unmarshal user: %v", err)
			msg.Nack(false, false)
			return
		}
		if err := dc.users.Upsert(ctx, &user); err != nil {
			log.Printf("[DirectoryConsumer] failed to upsert user %s: %v", user.ID, err)
			msg.Nack(false, true) // requeue
			return
		}
		log.Printf("[DirectoryConsumer] synced user %s: %s", user.ID, user.Name)

	default:
		log.Printf("[DirectoryConsumer] ignoring routing key %s", msg.RoutingKey)
	}

	msg.Ack(false)
}
