package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client *pubsub.Client
}

// EventType is the topic a league event is published on.
type EventType string

const (
	EventRosterReleased EventType = "roster-released"
	EventWeekReset      EventType = "week-reset"
)
