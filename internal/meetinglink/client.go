package meetinglink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/meetsync/reservation-service/internal/models"
	"github.com/meetsync/reservation-service/internal/service"
)

// Client talks to the external conferencing API that issues calendar events
// and join links. Callers treat failures as non-fatal.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type createEventRequest struct {
	Title          string    `json:"title"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	AttendeeEmails []string  `json:"attendee_emails"`
	Reference      string    `json:"reference"`
}

type createEventResponse struct {
	EventID string `json:"event_id"`
	JoinURL string `json:"join_url"`
}

func (c *Client) CreateMeetingEvent(ctx context.Context, booking *models.Booking, attendeeEmails []string) (*service.MeetingEvent, error) {
	body, err := json.Marshal(createEventRequest{
		Title:          booking.Title,
		StartTime:      booking.StartTime,
		EndTime:        booking.EndTime,
		AttendeeEmails: attendeeEmails,
		Reference:      booking.Reference,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal event request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/events", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build event request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create meeting event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("create meeting event: unexpected status %d", resp.StatusCode)
	}

	var out createEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode event response: %w", err)
	}

	return &service.MeetingEvent{ExternalEventID: out.EventID, JoinURL: out.JoinURL}, nil
}
