package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// Topics for the admission subsystem's post-commit events. Each one has a
// push subscription pointing back at the corresponding /events endpoint.
const (
	TopicApplicationSubmitted = "application-submitted"
	TopicApplicationDecided   = "application-decided"
	TopicGameCancelled        = "game-cancelled"
)
