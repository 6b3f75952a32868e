package subscriptions

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"jirabackend/core"
	"jirabackend/db"
	"jirabackend/models"
)

type SubscriptionsService struct {
	channelSubscriptionsRepo db.ChannelSubscriptionsRepository
	userSubscriptionsRepo    db.UserSubscriptionsRepository
}

func NewSubscriptionsService(channelRepo db.ChannelSubscriptionsRepository, userRepo db.UserSubscriptionsRepository) *SubscriptionsService {
	return &SubscriptionsService{
		channelSubscriptionsRepo: channelRepo,
		userSubscriptionsRepo:    userRepo,
	}
}

// SubscribeChannel routes projectKey's events to a room. Subscribing again replaces
// the event allow-list and keeps the original subscription id.
func (s *SubscriptionsService) SubscribeChannel(ctx context.Context, platform models.ChannelType, roomID, projectKey string, events []string) (*models.ChannelSubscription, error) {
	log.Info().Str("room_id", roomID).Str("project", projectKey).Msg("📋 Starting to subscribe channel to jira project")
	if platform == "" {
		platform = models.ChannelTypeSlack
	}
	if platform != models.ChannelTypeSlack && platform != models.ChannelTypeDiscord {
		return nil, fmt.Errorf("unsupported platform %q", platform)
	}
	if roomID == "" {
		return nil, fmt.Errorf("room ID cannot be empty")
	}

	projectKey = normalizeProjectKey(projectKey)
	if projectKey == "" {
		return nil, fmt.Errorf("project key cannot be empty")
	}

	normalizedEvents, err := normalizeEvents(events)
	if err != nil {
		return nil, err
	}

	sub := &models.ChannelSubscription{
		ID:         core.NewID(core.ChannelSubscriptionIDPrefix),
		ProjectKey: projectKey,
		RoomID:     roomID,
		Platform:   platform,
		Events:     normalizedEvents,
	}
	if err := s.channelSubscriptionsRepo.UpsertChannelSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save channel subscription: %w", err)
	}

	log.Info().Str("subscription_id", sub.ID).Msg("📋 Completed successfully - channel subscribed")
	return sub, nil
}

func (s *SubscriptionsService) UnsubscribeChannel(ctx context.Context, platform models.ChannelType, roomID, projectKey string) (bool, error) {
	if platform == "" {
		platform = models.ChannelTypeSlack
	}
	deleted, err := s.channelSubscriptionsRepo.DeleteChannelSubscription(ctx, platform, roomID, normalizeProjectKey(projectKey))
	if err != nil {
		return false, fmt.Errorf("failed to remove channel subscription: %w", err)
	}
	return deleted, nil
}

func (s *SubscriptionsService) ListChannelSubscriptions(ctx context.Context, projectKey string) ([]*models.ChannelSubscription, error) {
	subs, err := s.channelSubscriptionsRepo.GetChannelSubscriptionsByProjectKey(ctx, normalizeProjectKey(projectKey))
	if err != nil {
		return nil, fmt.Errorf("failed to list channel subscriptions: %w", err)
	}
	return subs, nil
}

func (s *SubscriptionsService) ListRoomSubscriptions(ctx context.Context, platform models.ChannelType, roomID string) ([]*models.ChannelSubscription, error) {
	subs, err := s.channelSubscriptionsRepo.GetChannelSubscriptionsByRoomID(ctx, platform, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list room subscriptions: %w", err)
	}
	return subs, nil
}

// WatchIssue subscribes a user's direct messages to one issue
func (s *SubscriptionsService) WatchIssue(ctx context.Context, userID, accountID, issueKey string, events []string) (*models.UserSubscription, error) {
	log.Info().Str("user_id", userID).Str("issue", issueKey).Msg("📋 Starting to watch jira issue")
	if userID == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}
	issueKey = strings.ToUpper(strings.TrimSpace(issueKey))
	if issueKey == "" {
		return nil, fmt.Errorf("issue key cannot be empty")
	}

	normalizedEvents, err := normalizeEvents(events)
	if err != nil {
		return nil, err
	}

	sub := &models.UserSubscription{
		ID:        core.NewID(core.UserSubscriptionIDPrefix),
		IssueKey:  issueKey,
		UserID:    userID,
		AccountID: accountID,
		Events:    normalizedEvents,
	}
	if err := s.userSubscriptionsRepo.UpsertUserSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save user subscription: %w", err)
	}

	log.Info().Str("subscription_id", sub.ID).Msg("📋 Completed successfully - issue watched")
	return sub, nil
}

func (s *SubscriptionsService) UnwatchIssue(ctx context.Context, userID, issueKey string) (bool, error) {
	deleted, err := s.userSubscriptionsRepo.DeleteUserSubscription(ctx, userID, strings.ToUpper(strings.TrimSpace(issueKey)))
	if err != nil {
		return false, fmt.Errorf("failed to remove user subscription: %w", err)
	}
	return deleted, nil
}

func (s *SubscriptionsService) ListIssueWatchers(ctx context.Context, issueKey string) ([]*models.UserSubscription, error) {
	subs, err := s.userSubscriptionsRepo.GetUserSubscriptionsByIssueKey(ctx, strings.ToUpper(strings.TrimSpace(issueKey)))
	if err != nil {
		return nil, fmt.Errorf("failed to list issue watchers: %w", err)
	}
	return subs, nil
}

func (s *SubscriptionsService) ListUserWatches(ctx context.Context, userID string) ([]*models.UserSubscription, error) {
	subs, err := s.userSubscriptionsRepo.GetUserSubscriptionsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user watches: %w", err)
	}
	return subs, nil
}

type seedFile struct {
	ChannelSubscriptions []seedChannelSubscription `yaml:"channel_subscriptions"`
	UserSubscriptions    []seedUserSubscription    `yaml:"user_subscriptions"`
}

type seedChannelSubscription struct {
	Project  string   `yaml:"project"`
	Room     string   `yaml:"room"`
	Platform string   `yaml:"platform"`
	Events   []string `yaml:"events"`
}

type seedUserSubscription struct {
	Issue     string   `yaml:"issue"`
	User      string   `yaml:"user"`
	AccountID string   `yaml:"account_id"`
	Events    []string `yaml:"events"`
}

// LoadSeedFile upserts every subscription listed in a YAML file and returns how many were written
func (s *SubscriptionsService) LoadSeedFile(ctx context.Context, path string) (int, error) {
	log.Info().Str("path", path).Msg("📋 Starting to load subscription seed file")
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return 0, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	count := 0
	for i, entry := range seed.ChannelSubscriptions {
		platform := models.ChannelType(strings.ToLower(strings.TrimSpace(entry.Platform)))
		if _, err := s.SubscribeChannel(ctx, platform, entry.Room, entry.Project, entry.Events); err != nil {
			return count, fmt.Errorf("channel_subscriptions[%d]: %w", i, err)
		}
		count++
	}
	for i, entry := range seed.UserSubscriptions {
		if _, err := s.WatchIssue(ctx, entry.User, entry.AccountID, entry.Issue, entry.Events); err != nil {
			return count, fmt.Errorf("user_subscriptions[%d]: %w", i, err)
		}
		count++
	}

	log.Info().Int("count", count).Msg("📋 Completed successfully - loaded subscription seed file")
	return count, nil
}

func normalizeProjectKey(projectKey string) string {
	return strings.ToUpper(strings.TrimSpace(projectKey))
}

// normalizeEvents strips the jira: prefix and rejects names that are not event types
func normalizeEvents(events []string) ([]string, error) {
	if len(events) == 0 {
		return nil, nil
	}

	normalized := make([]string, 0, len(events))
	seen := map[models.EventType]bool{}
	for _, name := range events {
		eventType := models.ClassifyEvent(name)
		if eventType == models.EventUnknown {
			return nil, fmt.Errorf("unknown event %q (valid: %s)", name, strings.Join(models.KnownEventNames(), ", "))
		}
		if !seen[eventType] {
			seen[eventType] = true
			normalized = append(normalized, string(eventType))
		}
	}
	return normalized, nil
}
