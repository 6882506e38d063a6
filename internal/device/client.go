// Package device talks to the video-conferencing endpoint's HTTP API: status
// queries, booking commands, and on-screen messaging. It implements the
// collaborator interfaces the release core consumes.
package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"roomrelease/internal/release"
	"roomrelease/pkg/config"
	"roomrelease/pkg/logger"
	"roomrelease/pkg/model"
)

type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:  cfg.DeviceBaseURL,
		username: cfg.DeviceUsername,
		password: cfg.DevicePassword,
		httpClient: &http.Client{
			Timeout: cfg.DeviceTimeout,
		},
		log: cfg.Log,
	}
}

type callStatus struct {
	ActiveCalls int `json:"active_calls"`
}

func (c *Client) ActiveCallCount(ctx context.Context) (int, error) {
	var status callStatus
	if err := c.getJSON(ctx, "/api/status/call", &status); err != nil {
		return 0, fmt.Errorf("query call status: %w", err)
	}
	return status.ActiveCalls, nil
}

type currentBooking struct {
	ID string `json:"id"`
}

// CurrentID returns the id of the booking currently occupying the room, or
// empty when the device reports none.
func (c *Client) CurrentID(ctx context.Context) (string, error) {
	var current currentBooking
	if err := c.getJSON(ctx, "/api/status/bookings/current", &current); err != nil {
		return "", fmt.Errorf("query current booking: %w", err)
	}
	return current.ID, nil
}

type bookingDetails struct {
	ID        string `json:"id"`
	MeetingID string `json:"meeting_id"`
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (c *Client) Details(ctx context.Context, id string) (*model.BookingRef, error) {
	var details bookingDetails
	if err := c.getJSON(ctx, "/api/bookings/"+id, &details); err != nil {
		return nil, fmt.Errorf("query booking %s: %w", id, err)
	}
	return &model.BookingRef{
		ID:        details.ID,
		MeetingID: details.MeetingID,
		Title:     details.Title,
		StartTime: details.StartTime,
		EndTime:   details.EndTime,
	}, nil
}

func (c *Client) RespondDecline(ctx context.Context, meetingID string) error {
	body := map[string]string{
		"meeting_id":    meetingID,
		"response_type": "decline",
	}
	if err := c.postJSON(ctx, "/api/command/bookings/respond", body); err != nil {
		return fmt.Errorf("decline meeting %s: %w", meetingID, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, meetingID string) error {
	body := map[string]string{
		"meeting_id": meetingID,
	}
	if err := c.postJSON(ctx, "/api/command/bookings/delete", body); err != nil {
		return fmt.Errorf("delete meeting %s: %w", meetingID, err)
	}
	return nil
}

type promptOption struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

type promptDisplay struct {
	Title      string         `json:"title"`
	Text       string         `json:"text"`
	FeedbackID string         `json:"feedback_id"`
	Options    []promptOption `json:"options"`
}

func (c *Client) ShowConfirmPrompt(ctx context.Context, prompt release.ConfirmPrompt) error {
	body := promptDisplay{
		Title:      prompt.Title,
		Text:       prompt.Text,
		FeedbackID: prompt.FeedbackID,
	}
	for _, opt := range prompt.Options {
		body.Options = append(body.Options, promptOption{ID: opt.ID, Label: opt.Label})
	}
	if err := c.postJSON(ctx, "/api/command/message/prompt/display", body); err != nil {
		return fmt.Errorf("display prompt: %w", err)
	}
	return nil
}

// ClearPrompt dismisses a displayed prompt. An empty feedbackID clears
// whatever prompt is showing.
func (c *Client) ClearPrompt(ctx context.Context, feedbackID string) error {
	body := map[string]string{}
	if feedbackID != "" {
		body["feedback_id"] = feedbackID
	}
	if err := c.postJSON(ctx, "/api/command/message/prompt/clear", body); err != nil {
		return fmt.Errorf("clear prompt: %w", err)
	}
	return nil
}

func (c *Client) ClosePanel(ctx context.Context) error {
	if err := c.postJSON(ctx, "/api/command/panel/close", map[string]string{}); err != nil {
		return fmt.Errorf("close panel: %w", err)
	}
	return nil
}

type alertDisplay struct {
	Title           string `json:"title"`
	Text            string `json:"text"`
	DurationSeconds int    `json:"duration_seconds"`
}

func (c *Client) ShowAlert(ctx context.Context, title, text string, duration time.Duration) error {
	body := alertDisplay{
		Title:           title,
		Text:            text,
		DurationSeconds: int(duration.Seconds()),
	}
	if err := c.postJSON(ctx, "/api/command/message/alert/display", body); err != nil {
		return fmt.Errorf("display alert: %w", err)
	}
	return nil
}

// Ping checks device reachability for the readiness endpoint.
func (c *Client) Ping(ctx context.Context) error {
	var status callStatus
	return c.getJSON(ctx, "/api/status/call", &status)
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	return c.do(ctx, http.MethodGet, path, nil, target)
}

func (c *Client) postJSON(ctx context.Context, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data), nil)
}

func (c *Client) do(ctx context.Context, method, path string, reqBody io.Reader, target any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrBookingNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("device returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if target != nil {
		if err := json.Unmarshal(respBody, target); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
