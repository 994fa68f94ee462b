package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nodeboard/flowsync/internal/ports"
)

// StreamsChannel implements ports.PushChannel over Redis Streams, for
// deployments where the editor backend publishes workflow events to Redis
// directly. Each named event maps to one stream scoped to the workflow id;
// a consumer group per client keeps delivery in arrival order per stream.
type StreamsChannel struct {
	client        *redis.Client
	workflowID    string
	consumerGroup string
	consumerName  string
	logger        *zap.Logger

	cancels map[string]context.CancelFunc
	mu      sync.Mutex
}

// NewStreamsChannel creates a Redis Streams push channel for one workflow
func NewStreamsChannel(client *redis.Client, workflowID, consumerGroup, consumerName string, logger *zap.Logger) *StreamsChannel {
	return &StreamsChannel{
		client:        client,
		workflowID:    workflowID,
		consumerGroup: consumerGroup,
		consumerName:  consumerName,
		logger:        logger,
		cancels:       make(map[string]context.CancelFunc),
	}
}

// On subscribes a handler to a named event's stream
func (c *StreamsChannel) On(event string, handler ports.EventHandler) error {
	streamKey := c.getStreamKey(event)

	// Create consumer group if it doesn't exist
	ctx, cancel := context.WithCancel(context.Background())
	err := c.client.XGroupCreateMkStream(ctx, streamKey, c.consumerGroup, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		cancel()
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	c.mu.Lock()
	if prev, ok := c.cancels[event]; ok {
		prev()
	}
	c.cancels[event] = cancel
	c.mu.Unlock()

	c.logger.Info("subscribed to event stream",
		zap.String("stream", streamKey),
		zap.String("event", event),
		zap.String("consumer_group", c.consumerGroup),
		zap.String("consumer", c.consumerName))

	go c.readStream(ctx, streamKey, handler)

	return nil
}

// Off stops the reader for a named event
func (c *StreamsChannel) Off(event string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cancel, ok := c.cancels[event]; ok {
		cancel()
		delete(c.cancels, event)
	}
	return nil
}

// Close stops all readers. The Redis client is closed by the caller.
func (c *StreamsChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for event, cancel := range c.cancels {
		cancel()
		delete(c.cancels, event)
	}
	return nil
}

// readStream reads events from a stream
func (c *StreamsChannel) readStream(ctx context.Context, streamKey string, handler ports.EventHandler) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			// Read from stream
			streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    c.consumerGroup,
				Consumer: c.consumerName,
				Streams:  []string{streamKey, ">"},
				Count:    10,
				Block:    time.Second,
			}).Result()

			if err != nil {
				if err == redis.Nil {
					// No new messages
					continue
				}
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("failed to read from stream",
					zap.String("stream", streamKey),
					zap.Error(err))
				time.Sleep(time.Second)
				continue
			}

			// Process messages
			for _, stream := range streams {
				for _, message := range stream.Messages {
					c.processMessage(ctx, streamKey, message, handler)
				}
			}
		}
	}
}

// processMessage processes a single message from the stream
func (c *StreamsChannel) processMessage(ctx context.Context, streamKey string, message redis.XMessage, handler ports.EventHandler) {
	// Extract event payload
	data, ok := message.Values["data"].(string)
	if !ok {
		c.logger.Error("invalid message format",
			zap.String("stream", streamKey),
			zap.String("message_id", message.ID))
		return
	}

	handler(data)

	// Acknowledge message
	if err := c.client.XAck(ctx, streamKey, c.consumerGroup, message.ID).Err(); err != nil {
		c.logger.Error("failed to acknowledge message",
			zap.String("stream", streamKey),
			zap.String("message_id", message.ID),
			zap.Error(err))
	}
}

// getStreamKey returns the Redis stream key for a named event
func (c *StreamsChannel) getStreamKey(event string) string {
	return fmt.Sprintf("flowsync:events:%s:%s", c.workflowID, event)
}
