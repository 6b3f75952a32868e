package models

import "strings"

// EventType is the classified kind of an inbound Jira webhook
type EventType string

const (
	EventIssueCreated   EventType = "issue_created"
	EventIssueUpdated   EventType = "issue_updated"
	EventIssueDeleted   EventType = "issue_deleted"
	EventCommentCreated EventType = "comment_created"
	EventCommentUpdated EventType = "comment_updated"
	EventCommentDeleted EventType = "comment_deleted"
	EventSprintStarted  EventType = "sprint_started"
	EventSprintClosed   EventType = "sprint_closed"
	EventUnknown        EventType = "unknown"
)

var knownEventTypes = map[string]EventType{
	string(EventIssueCreated):   EventIssueCreated,
	string(EventIssueUpdated):   EventIssueUpdated,
	string(EventIssueDeleted):   EventIssueDeleted,
	string(EventCommentCreated): EventCommentCreated,
	string(EventCommentUpdated): EventCommentUpdated,
	string(EventCommentDeleted): EventCommentDeleted,
	string(EventSprintStarted):  EventSprintStarted,
	string(EventSprintClosed):   EventSprintClosed,
}

// ClassifyEvent maps a webhook tag to its EventType. Both "jira:issue_updated" and
// "issue_updated" are recognized; anything else is EventUnknown.
func ClassifyEvent(tag string) EventType {
	name := strings.ToLower(strings.TrimSpace(tag))
	name = strings.TrimPrefix(name, "jira:")
	if eventType, ok := knownEventTypes[name]; ok {
		return eventType
	}
	return EventUnknown
}

// IsKnownEvent reports whether a user-supplied event name classifies to a real event type
func IsKnownEvent(name string) bool {
	return ClassifyEvent(name) != EventUnknown
}

// KnownEventNames lists the event names accepted in subscription allow-lists
func KnownEventNames() []string {
	return []string{
		string(EventIssueCreated), string(EventIssueUpdated), string(EventIssueDeleted),
		string(EventCommentCreated), string(EventCommentUpdated), string(EventCommentDeleted),
		string(EventSprintStarted), string(EventSprintClosed),
	}
}
