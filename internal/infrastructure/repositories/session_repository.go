package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// redisSession is the stored form of a session. The credential hash never
// leaves the directory.
type redisSession struct {
	ActorID       string    `json:"actor_id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Phone         string    `json:"phone,omitempty"`
	Avatar        string    `json:"avatar,omitempty"`
	EstablishedAt time.Time `json:"established_at"`
}

// SessionRepositoryImpl implements domain.SessionStore using Redis, one key
// per actor
type SessionRepositoryImpl struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionRepository creates a new session repository. A zero ttl keeps
// sessions until they are cleared.
func NewSessionRepository(client redis.UniversalClient, ttl time.Duration) *SessionRepositoryImpl {
	return &SessionRepositoryImpl{
		client: client,
		prefix: "session:",
		ttl:    ttl,
		now:    time.Now,
	}
}

// Establish implements domain.SessionStore. SET replaces any previous
// session atomically.
func (r *SessionRepositoryImpl) Establish(ctx context.Context, actorID string, identity *domain.Identity) (*domain.Session, error) {
	session := &domain.Session{
		ActorID:       actorID,
		Identity:      identity,
		EstablishedAt: r.now().UTC(),
	}
	data, err := json.Marshal(redisSession{
		ActorID:       actorID,
		UserID:        identity.ID,
		Name:          identity.Name,
		Email:         identity.Email,
		Role:          string(identity.Role),
		Phone:         identity.Phone,
		Avatar:        identity.Avatar,
		EstablishedAt: session.EstablishedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, r.prefix+actorID, data, r.ttl).Err(); err != nil {
		return nil, err
	}
	return session, nil
}

// Current implements domain.SessionStore
func (r *SessionRepositoryImpl) Current(ctx context.Context, actorID string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, r.prefix+actorID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stored redisSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &domain.Session{
		ActorID: stored.ActorID,
		Identity: &domain.Identity{
			ID:     stored.UserID,
			Name:   stored.Name,
			Email:  stored.Email,
			Role:   domain.Role(stored.Role),
			Phone:  stored.Phone,
			Avatar: stored.Avatar,
		},
		EstablishedAt: stored.EstablishedAt,
	}, nil
}

// Clear implements domain.SessionStore. Deleting a missing key is not an error.
func (r *SessionRepositoryImpl) Clear(ctx context.Context, actorID string) error {
	return r.client.Del(ctx, r.prefix+actorID).Err()
}

var _ domain.SessionStore = (*SessionRepositoryImpl)(nil)
