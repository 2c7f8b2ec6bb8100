package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/campusboard/timetable-backend/internal/logger"
)

// PushResult reports the outcome for one entry. Failures are per-entry so
// one bad event never aborts the batch.
type PushResult struct {
	UID string
	Err error
}

// CalendarProvider is the external calendar collaborator. Tokens are
// stored serialized; the provider deserializes and refreshes them itself.
type CalendarProvider interface {
	AuthURL(state, redirectURL string) string
	Exchange(ctx context.Context, code, redirectURL string) (string, error)
	Push(ctx context.Context, tokenJSON, calendarID string, entries []CalendarEntry) ([]PushResult, error)
}

type googleCalendarProvider struct {
	log          *logger.Logger
	clientID     string
	clientSecret string
}

func NewGoogleCalendarProvider(baseLog *logger.Logger, clientID, clientSecret string) CalendarProvider {
	return &googleCalendarProvider{
		log:          baseLog.With("service", "GoogleCalendarProvider"),
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

func (p *googleCalendarProvider) oauthConfig(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.clientID,
		ClientSecret: p.clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{calendar.CalendarScope},
		Endpoint:     google.Endpoint,
	}
}

func (p *googleCalendarProvider) AuthURL(state, redirectURL string) string {
	return p.oauthConfig(redirectURL).AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (p *googleCalendarProvider) Exchange(ctx context.Context, code, redirectURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	token, err := p.oauthConfig(redirectURL).Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("oauth exchange failed: %w", err)
	}
	raw, err := json.Marshal(token)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (p *googleCalendarProvider) Push(ctx context.Context, tokenJSON, calendarID string, entries []CalendarEntry) ([]PushResult, error) {
	var token oauth2.Token
	if err := json.Unmarshal([]byte(tokenJSON), &token); err != nil {
		return nil, fmt.Errorf("stored token is not valid: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}

	source := p.oauthConfig("").TokenSource(ctx, &token)
	svc, err := calendar.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}

	results := make([]PushResult, 0, len(entries))
	for _, entry := range entries {
		remote := &calendar.Event{
			ICalUID:  entry.UID,
			Summary:  entry.Summary,
			Location: entry.Location,
			Start:    &calendar.EventDateTime{DateTime: entry.Start.Format(time.RFC3339)},
			End:      &calendar.EventDateTime{DateTime: entry.End.Format(time.RFC3339)},
		}

		callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		// Import keys the event on its iCal UID, so re-pushing the same
		// schedule updates instead of duplicating.
		_, callErr := svc.Events.Import(calendarID, remote).Context(callCtx).Do()
		cancel()

		if callErr != nil {
			p.log.Warn("Calendar push failed for entry", "uid", entry.UID, "error", callErr)
		}
		results = append(results, PushResult{UID: entry.UID, Err: callErr})
	}
	return results, nil
}
