package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ErrDraftNotFound is returned when a draft id has no entry (expired or
// never created).
var ErrDraftNotFound = errors.New("draft not found")

// DraftStore keeps ephemeral wizard drafts in Redis. Drafts are TTL-bound:
// abandoning the wizard needs no explicit cleanup.
type DraftStore struct {
	ttl time.Duration
}

// NewDraftStore creates a draft store with the given time-to-live.
func NewDraftStore(ttl time.Duration) *DraftStore {
	return &DraftStore{ttl: ttl}
}

// Save marshals and stores a draft, resetting its TTL.
func (s *DraftStore) Save(ctx context.Context, draftID string, draft interface{}) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return Set(ctx, "draft:"+draftID, string(data), s.ttl)
}

// Load unmarshals a draft into out.
func (s *DraftStore) Load(ctx context.Context, draftID string, out interface{}) error {
	data, err := Get(ctx, "draft:"+draftID)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return ErrDraftNotFound
		}
		return err
	}
	return json.Unmarshal([]byte(data), out)
}

// Delete removes a draft; deleting a missing draft is not an error.
func (s *DraftStore) Delete(ctx context.Context, draftID string) error {
	return Del(ctx, "draft:"+draftID)
}
