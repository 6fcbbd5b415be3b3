package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/victorgmp/SGPC-auth/pkg/logging"
)

type Consumer struct {
	readers  []*kafka.Reader
	dispatch func(ctx context.Context, topic string, value []byte) error
	log      *slog.Logger
}

func NewConsumer(brokers []string, groupID string, d *Dispatcher, log *slog.Logger) *Consumer {
	c := &Consumer{dispatch: d.Dispatch, log: log}
	for _, topic := range ConsumedTopics {
		c.readers = append(c.readers, kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6,
			MaxWait:  time.Second,
		}))
	}
	return c
}

// Run consumes every topic until ctx is done. A message whose handler fails
// is logged and committed so it does not block the partition.
func (c *Consumer) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, r := range c.readers {
		wg.Add(1)
		go func(r *kafka.Reader) {
			defer wg.Done()
			c.consume(ctx, r)
		}(r)
	}
	wg.Wait()
}

func (c *Consumer) consume(ctx context.Context, r *kafka.Reader) {
	topic := r.Config().Topic
	l := c.log.With("topic", topic)

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			l.Error("fetch_failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		mctx := logging.With(logging.IntoContext(ctx, l), "offset", m.Offset, "partition", m.Partition)
		if err := c.dispatch(mctx, m.Topic, m.Value); err != nil {
			l.Error("handle_failed", "offset", m.Offset, "error", err)
		}

		if err := r.CommitMessages(ctx, m); err != nil && !errors.Is(err, context.Canceled) {
			l.Error("commit_failed", "offset", m.Offset, "error", err)
		}
	}
}

func (c *Consumer) Close() error {
	var errs []error
	for _, r := range c.readers {
		errs = append(errs, r.Close())
	}
	return errors.Join(errs...)
}
