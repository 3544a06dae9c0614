package markers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

const natsKeyPrefix = "org-hook."

// NATSHookMarkerRepository keeps the markers in a JetStream key-value bucket,
// so that several giteasync instances share them.
type NATSHookMarkerRepository struct {
	conn *nats.Conn
	kv   jetstream.KeyValue
}

var _ repositories.HookMarkerRepository = (*NATSHookMarkerRepository)(nil)

// NewNATSHookMarkerRepository connects to url and opens (or creates) bucket.
func NewNATSHookMarkerRepository(ctx context.Context, url, bucket string) (*NATSHookMarkerRepository, error) {
	conn, err := nats.Connect(url, nats.Name("giteasync"), nats.Timeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "organization webhook markers",
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open bucket %q: %w", bucket, err)
	}

	repo := newNATSHookMarkerRepository(kv)
	repo.conn = conn
	return repo, nil
}

func newNATSHookMarkerRepository(kv jetstream.KeyValue) *NATSHookMarkerRepository {
	return &NATSHookMarkerRepository{kv: kv}
}

func (it *NATSHookMarkerRepository) IsMarked(ctx context.Context, org string) (bool, error) {
	_, err := it.kv.Get(ctx, natsKeyPrefix+org)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read marker of %q: %w", org, err)
	}
	return true, nil
}

func (it *NATSHookMarkerRepository) Mark(ctx context.Context, org string) (bool, error) {
	value := []byte(time.Now().UTC().Format(time.RFC3339))
	if _, err := it.kv.Create(ctx, natsKeyPrefix+org, value); err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			return false, nil
		}
		return false, fmt.Errorf("failed to write marker of %q: %w", org, err)
	}
	return true, nil
}

// Close drains the NATS connection.
func (it *NATSHookMarkerRepository) Close() {
	if it.conn == nil {
		return
	}
	if err := it.conn.Drain(); err != nil {
		it.conn.Close()
	}
}
