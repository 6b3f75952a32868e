package notifications

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"jirabackend/clients"
	"jirabackend/models"
	"jirabackend/services"
)

type NotificationsService struct {
	subscriptionsService services.SubscriptionsService
	messengers           map[models.ChannelType]clients.Messenger
	directPlatform       models.ChannelType
}

// NewNotificationsService delivers room messages through the messenger registered for
// each subscription's platform. Direct messages to watching users go through the
// messenger of directPlatform.
func NewNotificationsService(
	subscriptionsService services.SubscriptionsService,
	messengers map[models.ChannelType]clients.Messenger,
	directPlatform models.ChannelType,
) *NotificationsService {
	return &NotificationsService{
		subscriptionsService: subscriptionsService,
		messengers:           messengers,
		directPlatform:       directPlatform,
	}
}

// Fanout delivers one webhook event to every matching subscription, one recipient
// at a time. Individual delivery failures are recorded in the report; only a failure
// to read subscriptions aborts the fanout.
func (s *NotificationsService) Fanout(ctx context.Context, payload *models.WebhookPayload) (*models.FanoutReport, error) {
	event := payload.Normalize()
	report := &models.FanoutReport{
		EventType:  event.Type,
		ProjectKey: event.ProjectKey,
		IssueKey:   event.IssueKey,
		Outcomes:   []models.DeliveryOutcome{},
	}
	log.Info().
		Str("event", event.RawType).
		Str("project", event.ProjectKey).
		Str("issue", event.IssueKey).
		Msg("📋 Starting to fan out jira event")

	if text := FormatChannelMessage(event); text != "" {
		subs, err := s.roomSubscriptions(ctx, event.ProjectKey)
		if err != nil {
			return report, err
		}
		for _, sub := range subs {
			report.Add(s.deliverToRoom(ctx, sub, event.Type, text))
		}
	}

	if text := FormatDirectMessage(event); text != "" && event.IssueKey != models.UnknownValue {
		watchers, err := s.subscriptionsService.ListIssueWatchers(ctx, event.IssueKey)
		if err != nil {
			// an error is only returned while nothing has been delivered
			if report.Count(models.DeliveryDelivered) == 0 {
				return report, fmt.Errorf("failed to list issue watchers: %w", err)
			}
			log.Warn().Err(err).Str("issue", event.IssueKey).Msg("⚠️ Failed to list issue watchers after room delivery")
			report.Add(models.DeliveryOutcome{
				Kind:      models.RecipientUser,
				Recipient: event.IssueKey,
				Platform:  s.directPlatform,
				Status:    models.DeliveryFailed,
				Reason:    fmt.Sprintf("failed to list issue watchers: %v", err),
			})
			watchers = nil
		}
		for _, sub := range watchers {
			report.Add(s.deliverToUser(ctx, sub, event.Type, text))
		}
	}

	log.Info().
		Int("delivered", report.Count(models.DeliveryDelivered)).
		Int("skipped", report.Count(models.DeliverySkipped)).
		Int("failed", report.Count(models.DeliveryFailed)).
		Msg("📋 Completed successfully - fanned out jira event")
	return report, nil
}

// roomSubscriptions returns the project's subscriptions followed by the all-projects ones
func (s *NotificationsService) roomSubscriptions(ctx context.Context, projectKey string) ([]*models.ChannelSubscription, error) {
	subs, err := s.subscriptionsService.ListChannelSubscriptions(ctx, projectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list channel subscriptions: %w", err)
	}
	if projectKey == models.AllProjects {
		return subs, nil
	}

	wildcard, err := s.subscriptionsService.ListChannelSubscriptions(ctx, models.AllProjects)
	if err != nil {
		return nil, fmt.Errorf("failed to list all-project subscriptions: %w", err)
	}

	// a room subscribed both ways gets one message
	seen := make(map[string]bool, len(subs))
	for _, sub := range subs {
		seen[string(sub.Platform)+"|"+sub.RoomID] = true
	}
	for _, sub := range wildcard {
		if !seen[string(sub.Platform)+"|"+sub.RoomID] {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

func (s *NotificationsService) deliverToRoom(ctx context.Context, sub *models.ChannelSubscription, eventType models.EventType, text string) models.DeliveryOutcome {
	outcome := models.DeliveryOutcome{
		SubscriptionID: sub.ID,
		Kind:           models.RecipientRoom,
		Recipient:      sub.RoomID,
		Platform:       sub.Platform,
	}

	if !sub.Accepts(eventType) {
		outcome.Status = models.DeliverySkipped
		outcome.Reason = "event not in subscription allow-list"
		return outcome
	}

	messenger, ok := s.messengers[sub.Platform]
	if !ok {
		outcome.Status = models.DeliveryFailed
		outcome.Reason = fmt.Sprintf("no messenger configured for platform %s", sub.Platform)
		log.Warn().Str("room_id", sub.RoomID).Msg("⚠️ " + outcome.Reason)
		return outcome
	}

	if err := messenger.SendMessage(ctx, sub.RoomID, text); err != nil {
		outcome.Status = models.DeliveryFailed
		outcome.Reason = err.Error()
		log.Warn().Err(err).Str("room_id", sub.RoomID).Msg("⚠️ Failed to deliver jira notification to room")
		return outcome
	}

	outcome.Status = models.DeliveryDelivered
	return outcome
}

func (s *NotificationsService) deliverToUser(ctx context.Context, sub *models.UserSubscription, eventType models.EventType, text string) models.DeliveryOutcome {
	outcome := models.DeliveryOutcome{
		SubscriptionID: sub.ID,
		Kind:           models.RecipientUser,
		Recipient:      sub.UserID,
		Platform:       s.directPlatform,
	}

	if !sub.Accepts(eventType) {
		outcome.Status = models.DeliverySkipped
		outcome.Reason = "event not in subscription allow-list"
		return outcome
	}

	messenger, ok := s.messengers[s.directPlatform]
	if !ok {
		outcome.Status = models.DeliveryFailed
		outcome.Reason = fmt.Sprintf("no messenger configured for platform %s", s.directPlatform)
		return outcome
	}

	roomID, err := messenger.OpenDirectRoom(ctx, sub.UserID)
	if err != nil {
		outcome.Status = models.DeliveryFailed
		outcome.Reason = err.Error()
		log.Warn().Err(err).Str("user_id", sub.UserID).Msg("⚠️ Failed to open direct message for jira notification")
		return outcome
	}

	if err := messenger.SendMessage(ctx, roomID, text); err != nil {
		outcome.Status = models.DeliveryFailed
		outcome.Reason = err.Error()
		log.Warn().Err(err).Str("user_id", sub.UserID).Msg("⚠️ Failed to deliver jira direct message")
		return outcome
	}

	outcome.Status = models.DeliveryDelivered
	return outcome
}
