package messaging

import (
	"context"
	"fmt"

	"github.com/huddlehq/huddle-backend/internal/domain/repository"
	"github.com/huddlehq/huddle-backend/pkg/messaging"
	"go.uber.org/zap"
)

type redisEventPublisher struct {
	client messaging.RedisClient
	logger *zap.Logger
}

// NewRedisEventPublisher creates an event publisher that fans workspace
// events out over Redis pub/sub, one channel per workspace.
func NewRedisEventPublisher(client messaging.RedisClient, logger *zap.Logger) repository.EventPublisher {
	return &redisEventPublisher{
		client: client,
		logger: logger,
	}
}

func (p *redisEventPublisher) PublishWorkspaceEvent(ctx context.Context, event *repository.WorkspaceEvent) error {
	channel := fmt.Sprintf("workspace:%s:events", event.WorkspaceID)

	if err := p.client.Publish(ctx, channel, event); err != nil {
		p.logger.Error("Failed to publish workspace event",
			zap.String("channel", channel),
			zap.String("kind", event.Kind),
			zap.Error(err))
		return fmt.Errorf("failed to publish workspace event: %w", err)
	}

	p.logger.Debug("Published workspace event",
		zap.String("channel", channel),
		zap.String("kind", event.Kind))

	return nil
}
