package widget

import "time"

// NoticeTTL is how long a transient notice stays on screen before the host
// page should dismiss it.
const NoticeTTL = 3 * time.Second

// Notice is a transient message shown next to a card after a failed or
// reverted mutation.
type Notice struct {
	Message  string
	Deadline time.Time
}

// NewNotice stamps a message with its auto-dismiss deadline.
func NewNotice(message string, now time.Time) Notice {
	return Notice{Message: message, Deadline: now.Add(NoticeTTL)}
}

// Expired reports whether the notice should be dismissed at the given time.
func (n Notice) Expired(now time.Time) bool {
	return !now.Before(n.Deadline)
}
