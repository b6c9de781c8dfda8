package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"mergington/internal/activity/models"
	"mergington/pkg/platform/sentinel"
)

// Redis keeps one JSON document per activity under prefix+name. The registry
// is small and write volume low, so read-modify-write per operation is fine;
// no cross-key atomicity is promised.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis constructs a Redis-backed registry store.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

type redisActivity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Seed writes the fixed dataset with SETNX so existing rosters survive
// restarts.
func (s *Redis) Seed(ctx context.Context, activities []*models.Activity) error {
	for _, a := range activities {
		doc, err := json.Marshal(redisActivity{
			Description:     a.Description,
			Schedule:        a.Schedule,
			MaxParticipants: a.MaxParticipants,
			Participants:    a.Participants,
		})
		if err != nil {
			return fmt.Errorf("marshal activity %q: %w", a.Name, err)
		}
		if err := s.client.SetNX(ctx, s.prefix+a.Name, doc, 0).Err(); err != nil {
			return fmt.Errorf("seed activity %q: %w", a.Name, err)
		}
	}
	return nil
}

// List scans the key prefix and returns every activity.
func (s *Redis) List(ctx context.Context) ([]*models.Activity, error) {
	var out []*models.Activity
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		a, err := s.load(ctx, key)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				continue // deleted between scan and fetch
			}
			return nil, err
		}
		out = append(out, a)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan activities: %w", err)
	}
	return out, nil
}

// FindByName returns one activity.
func (s *Redis) FindByName(ctx context.Context, name string) (*models.Activity, error) {
	return s.load(ctx, s.prefix+name)
}

// AddParticipant appends email to the activity roster.
// Returns ErrNotFound for unknown activities, ErrAlreadyUsed for duplicates.
func (s *Redis) AddParticipant(ctx context.Context, name, email string) error {
	a, err := s.load(ctx, s.prefix+name)
	if err != nil {
		return err
	}
	if a.HasParticipant(email) {
		return fmt.Errorf("participant %q: %w", email, sentinel.ErrAlreadyUsed)
	}
	a.Participants = append(a.Participants, email)
	return s.save(ctx, a)
}

// RemoveParticipant deletes email from the activity roster.
// Returns ErrNotFound for unknown activities, ErrInvalidState when the email
// is not on the roster.
func (s *Redis) RemoveParticipant(ctx context.Context, name, email string) error {
	a, err := s.load(ctx, s.prefix+name)
	if err != nil {
		return err
	}
	if !a.RemoveParticipant(email) {
		return fmt.Errorf("participant %q: %w", email, sentinel.ErrInvalidState)
	}
	return s.save(ctx, a)
}

func (s *Redis) load(ctx context.Context, key string) (*models.Activity, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("activity %q: %w", key[len(s.prefix):], sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load activity: %w", err)
	}
	var doc redisActivity
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal activity %q: %w", key, err)
	}
	participants := doc.Participants
	if participants == nil {
		participants = []string{}
	}
	return &models.Activity{
		Name:            key[len(s.prefix):],
		Description:     doc.Description,
		Schedule:        doc.Schedule,
		MaxParticipants: doc.MaxParticipants,
		Participants:    participants,
	}, nil
}

func (s *Redis) save(ctx context.Context, a *models.Activity) error {
	doc, err := json.Marshal(redisActivity{
		Description:     a.Description,
		Schedule:        a.Schedule,
		MaxParticipants: a.MaxParticipants,
		Participants:    a.Participants,
	})
	if err != nil {
		return fmt.Errorf("marshal activity %q: %w", a.Name, err)
	}
	if err := s.client.Set(ctx, s.prefix+a.Name, doc, 0).Err(); err != nil {
		return fmt.Errorf("save activity %q: %w", a.Name, err)
	}
	return nil
}
