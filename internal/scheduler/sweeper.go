package scheduler

import (
	"context"
	"log"
	"time"
)

type meetingCompleter interface {
	ProcessCompletedMeetings(ctx context.Context) (int64, error)
}

// Sweeper periodically moves elapsed scheduled meetings to completed.
type Sweeper struct {
	bookings meetingCompleter
	interval time.Duration
}

func NewSweeper(bookings meetingCompleter, interval time.Duration) *Sweeper {
	return &Sweeper{bookings: bookings, interval: interval}
}

func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("[Sweeper] started, interval %s", s.interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("[Sweeper] stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	completed, err := s.bookings.ProcessCompletedMeetings(ctx)
	if err != nil {
		log.Printf("[Sweeper] failed to complete elapsed meetings: %v", err)
		return
	}
	if completed > 0 {
		log.Printf("[Sweeper] completed %d elapsed meetings", completed)
	}
}
