package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/dukerupert/chorequest/internal/model"
)

const bucketName = "family_vaults"

// NATSStore backs the vault with a JetStream key-value bucket. Each family
// code is one key whose value is the JSON snapshot; Watch gives us change
// notifications without polling.
type NATSStore struct {
	nc     *nats.Conn
	kv     jetstream.KeyValue
	logger *slog.Logger
}

// DialNATS connects to the vault deployment and ensures the bucket exists.
func DialNATS(ctx context.Context, endpoint, credential string, logger *slog.Logger) (*NATSStore, error) {
	nc, err := nats.Connect(endpoint,
		nats.Token(credential),
		nats.Name("chorequest"),
	)
	if err != nil {
		return nil, fmt.Errorf("connect vault: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucketName,
		Description: "family snapshots keyed by family code",
		History:     1,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("open bucket %s: %w", bucketName, err)
	}

	return &NATSStore{nc: nc, kv: kv, logger: logger}, nil
}

func (s *NATSStore) Get(ctx context.Context, code string) (model.AppState, error) {
	entry, err := s.kv.Get(ctx, NormalizeCode(code))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return model.AppState{}, ErrNotFound
	}
	if err != nil {
		return model.AppState{}, fmt.Errorf("get vault %s: %w", code, err)
	}

	var state model.AppState
	if err := json.Unmarshal(entry.Value(), &state); err != nil {
		return model.AppState{}, fmt.Errorf("decode vault %s: %w", code, err)
	}
	return state, nil
}

func (s *NATSStore) Put(ctx context.Context, code string, state model.AppState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode vault %s: %w", code, err)
	}
	if _, err := s.kv.Put(ctx, NormalizeCode(code), data); err != nil {
		return fmt.Errorf("put vault %s: %w", code, err)
	}
	return nil
}

// Subscribe watches the family's key for writes from other devices. Only new
// revisions are delivered; the current value is fetched separately at join
// time.
func (s *NATSStore) Subscribe(ctx context.Context, code string, fn func(model.AppState)) (func(), error) {
	watcher, err := s.kv.Watch(ctx, NormalizeCode(code), jetstream.UpdatesOnly())
	if err != nil {
		return nil, fmt.Errorf("watch vault %s: %w", code, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case entry := <-watcher.Updates():
				if entry == nil {
					continue
				}
				if entry.Operation() == jetstream.KeyValueDelete {
					continue
				}

				var state model.AppState
				if err := json.Unmarshal(entry.Value(), &state); err != nil {
					s.logger.Warn("skipping unreadable vault revision",
						"code", code, "revision", entry.Revision(), "error", err)
					continue
				}
				fn(state)
			}
		}
	}()

	return func() {
		if err := watcher.Stop(); err != nil {
			s.logger.Debug("stop vault watcher", "code", code, "error", err)
		}
	}, nil
}

// Close drains the connection so in-flight writes finish.
func (s *NATSStore) Close() error {
	return s.nc.Drain()
}
