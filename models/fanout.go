package models

type DeliveryStatus string

const (
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliverySkipped   DeliveryStatus = "skipped"
	DeliveryFailed    DeliveryStatus = "failed"
)

type RecipientKind string

const (
	RecipientRoom RecipientKind = "room"
	RecipientUser RecipientKind = "user"
)

// DeliveryOutcome records what happened for one subscription during a fanout
type DeliveryOutcome struct {
	SubscriptionID string         `json:"subscription_id"`
	Kind           RecipientKind  `json:"kind"`
	Recipient      string         `json:"recipient"`
	Platform       ChannelType    `json:"platform,omitempty"`
	Status         DeliveryStatus `json:"status"`
	Reason         string         `json:"reason,omitempty"`
}

type FanoutReport struct {
	EventType  EventType         `json:"event_type"`
	ProjectKey string            `json:"project_key"`
	IssueKey   string            `json:"issue_key"`
	Outcomes   []DeliveryOutcome `json:"outcomes"`
}

func (r *FanoutReport) Add(outcome DeliveryOutcome) {
	r.Outcomes = append(r.Outcomes, outcome)
}

func (r *FanoutReport) Count(status DeliveryStatus) int {
	count := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			count++
		}
	}
	return count
}
