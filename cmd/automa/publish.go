package main

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/automa/internal/client"
	"github.com/alfredjeanlab/automa/internal/events"
	"github.com/alfredjeanlab/automa/internal/model"
)

// publishingClient announces every record it creates so that other
// watchers refresh. Notification failures never fail the create.
type publishingClient struct {
	client.Client
	pub    events.Publisher
	logger *slog.Logger
}

func (c *publishingClient) CreateAgent(ctx context.Context, req *model.CreateAgentRequest) (*model.Agent, error) {
	a, err := c.Client.CreateAgent(ctx, req)
	if err != nil {
		return nil, err
	}
	c.publish(ctx, events.TopicAgentCreated, events.AgentCreated{Agent: a})
	return a, nil
}

func (c *publishingClient) CreateScript(ctx context.Context, req *model.CreateScriptRequest) (*model.Script, error) {
	s, err := c.Client.CreateScript(ctx, req)
	if err != nil {
		return nil, err
	}
	c.publish(ctx, events.TopicScriptCreated, events.ScriptCreated{Script: s})
	return s, nil
}

func (c *publishingClient) CreateJob(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	j, err := c.Client.CreateJob(ctx, req)
	if err != nil {
		return nil, err
	}
	c.publish(ctx, events.TopicJobCreated, events.JobCreated{Job: j})
	return j, nil
}

func (c *publishingClient) publish(ctx context.Context, topic string, event any) {
	if err := c.pub.Publish(ctx, topic, event); err != nil {
		c.logger.Warn("publishing change notification", "topic", topic, "err", err)
	}
}
