package redis

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

const snapshotKeyPrefix = "shiftago:snapshot:"

// SnapshotStore keeps serialized game positions with a rolling TTL, so an
// interrupted game can be resumed within the retention window.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotStore(client *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{client: client, ttl: ttl}
}

func (s *SnapshotStore) Save(ctx context.Context, gameID string, snapshot []byte) error {
	if err := s.client.Set(ctx, snapshotKeyPrefix+gameID, snapshot, s.ttl).Err(); err != nil {
		return errors.Wrapf(err, "saving snapshot for game %s", gameID)
	}
	return nil
}

func (s *SnapshotStore) Load(ctx context.Context, gameID string) ([]byte, error) {
	snapshot, err := s.client.Get(ctx, snapshotKeyPrefix+gameID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading snapshot for game %s", gameID)
	}
	return snapshot, nil
}

func (s *SnapshotStore) Delete(ctx context.Context, gameID string) error {
	if err := s.client.Del(ctx, snapshotKeyPrefix+gameID).Err(); err != nil {
		return errors.Wrapf(err, "deleting snapshot for game %s", gameID)
	}
	return nil
}
