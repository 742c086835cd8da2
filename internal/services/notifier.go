package services

// Event names broadcast to connected clients.
const (
	EventIssueCreated        = "issue:created"
	EventIssueUpdated        = "issue:updated"
	EventIssueAutoMerged     = "issue:auto-merged"
	EventIssueMerged         = "issue:merged"
	EventIssueUnmerged       = "issue:unmerged"
	EventIssueReopened       = "issue:reopened"
	EventIssueDeleted        = "issue:deleted"
	EventAnnouncementCreated = "announcement:created"
	EventUserUpdated         = "user:updated"
)

// Notifier broadcasts domain events to connected clients. Delivery is
// fire-and-forget: a failed or slow delivery never affects the operation
// that emitted the event.
type Notifier interface {
	Broadcast(event string, data interface{})
}

// NopNotifier discards all events. Used in tests and when no hub is wired.
type NopNotifier struct{}

// Broadcast implements Notifier.
func (NopNotifier) Broadcast(event string, data interface{}) {}
