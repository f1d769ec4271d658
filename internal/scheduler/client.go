package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"funnel_backend/internal/funnel/transport"
	"funnel_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Client enqueues work onto the Redis-backed queue. A nil Client is valid:
// every enqueue becomes a no-op error so callers can fall back in-process.
type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// DispatchInbound queues an inbound message for funnel processing. It
// satisfies the funnel handler's Dispatcher contract.
func (c *Client) DispatchInbound(ctx context.Context, msg transport.InboundMessage) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("queue not configured")
	}

	task, err := NewProcessInboundTask(ProcessInboundPayload{Message: msg})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

// DispatchRelay queues one raw provider event for downstream forwarding.
// MaxRetry 0: the relay is fire-and-forget end to end.
func (c *Client) DispatchRelay(ctx context.Context, payload []byte) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("queue not configured")
	}

	task, err := NewRelayForwardTask(RelayForwardPayload{Raw: payload})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(0))
	return err
}

// EnqueueContactCleanup queues one stale-contact sweep.
func (c *Client) EnqueueContactCleanup(ctx context.Context) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("queue not configured")
	}

	task, err := NewContactsCleanTask(ContactsCleanPayload{RequestedAt: time.Now().UnixMilli()})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
