package models

import (
	"slices"
	"time"
)

// ChannelType is the chat platform a room lives on
type ChannelType string

const (
	ChannelTypeSlack   ChannelType = "slack"
	ChannelTypeDiscord ChannelType = "discord"
)

// AllProjects subscribes a room to every project, including events with no project
const AllProjects = "*"

// ChannelSubscription routes a project's events to a chat room
type ChannelSubscription struct {
	ID         string      `db:"id"          json:"id"`
	ProjectKey string      `db:"project_key" json:"project_key"`
	RoomID     string      `db:"room_id"     json:"room_id"`
	Platform   ChannelType `db:"platform"    json:"platform"`
	Events     []string    `db:"-"           json:"events,omitempty"`
	CreatedAt  time.Time   `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at"  json:"updated_at"`
}

// Accepts applies the optional event allow-list
func (s *ChannelSubscription) Accepts(eventType EventType) bool {
	return acceptsEvent(s.Events, eventType)
}

// UserSubscription routes one issue's events to a user's direct messages
type UserSubscription struct {
	ID        string    `db:"id"         json:"id"`
	IssueKey  string    `db:"issue_key"  json:"issue_key"`
	UserID    string    `db:"user_id"    json:"user_id"`
	AccountID string    `db:"account_id" json:"account_id"`
	Events    []string  `db:"-"          json:"events,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (s *UserSubscription) Accepts(eventType EventType) bool {
	return acceptsEvent(s.Events, eventType)
}

func acceptsEvent(allowList []string, eventType EventType) bool {
	if len(allowList) == 0 {
		return true
	}
	return slices.ContainsFunc(allowList, func(name string) bool {
		return ClassifyEvent(name) == eventType
	})
}
