package services

import "github.com/sirupsen/logrus"

// Event types published after successful writes.
const (
	EventUserRegistered  = "user.registered"
	EventRecordCreated   = "record.created"
	EventRecordUpdated   = "record.updated"
	EventRecordDeleted   = "record.deleted"
	EventReminderCreated = "reminder.created"
	EventReminderUpdated = "reminder.updated"
	EventReminderDeleted = "reminder.deleted"
)

// EventPublisher delivers domain events to an external broker.
type EventPublisher interface {
	Publish(eventType string, payload interface{}) error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(string, interface{}) error { return nil }

// emit publishes an event; the write that produced it has already committed,
// so a broker failure is only logged.
func emit(log *logrus.Logger, events EventPublisher, eventType string, payload interface{}) {
	if err := events.Publish(eventType, payload); err != nil {
		log.Warnf("Failed to publish %s event: %+v", eventType, err)
	}
}
