// Package events carries change notifications for the automa collections
// over NATS. Subjects follow "automa.<collection>.<action>".
package events

import (
	"context"
	"strings"

	"github.com/alfredjeanlab/automa/internal/model"
)

// SubjectPrefix is the first token of every automa subject.
const SubjectPrefix = "automa"

// AllSubjects matches every automa change notification.
const AllSubjects = SubjectPrefix + ".>"

// Event topic constants
const (
	TopicAgentCreated  = "automa.agents.created"
	TopicScriptCreated = "automa.scripts.created"
	TopicJobCreated    = "automa.jobs.created"
)

// Collection names as they appear in subjects.
const (
	CollectionAgents  = "agents"
	CollectionScripts = "scripts"
	CollectionJobs    = "jobs"
)

type AgentCreated struct {
	Agent *model.Agent `json:"agent"`
}

type ScriptCreated struct {
	Script *model.Script `json:"script"`
}

type JobCreated struct {
	Job *model.Job `json:"job"`
}

// Message is one received notification.
type Message struct {
	Subject string
	Data    []byte
}

// Collection returns the collection a subject refers to, or "" when the
// subject does not name a known collection.
func Collection(subject string) string {
	parts := strings.Split(subject, ".")
	if len(parts) < 2 || parts[0] != SubjectPrefix {
		return ""
	}
	switch parts[1] {
	case CollectionAgents, CollectionScripts, CollectionJobs:
		return parts[1]
	}
	return ""
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers messages on the returned channel. Call the returned
	// cancel function to unsubscribe and close the channel.
	Subscribe(subject string) (<-chan Message, func(), error)
	Close() error
}

// NoopPublisher is a Publisher that does nothing (used when NATS is not configured).
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (NoopPublisher) Close() error { return nil }
