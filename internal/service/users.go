// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package service

import (
	"context"
	"fmt"

	"github.com/tomtom215/filmorate/internal/logging"
	"github.com/tomtom215/filmorate/internal/metrics"
	"github.com/tomtom215/filmorate/internal/models"
	"github.com/tomtom215/filmorate/internal/storage"
	"github.com/tomtom215/filmorate/internal/validation"
)

// EventPublisher delivers feed events. events.Bus and
// events.DirectPublisher implement it.
type EventPublisher interface {
	Publish(ctx context.Context, event models.FeedEvent) error
}

// publish sends event and only logs a failure.
func publish(ctx context.Context, p EventPublisher, event models.FeedEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil {
		metrics.FeedPublishFailures.Inc()
		logging.CtxErr(ctx, err).
			Int64("user_id", event.UserID).
			Str("event_type", event.EventType).
			Str("operation", event.Operation).
			Int64("entity_id", event.EntityID).
			Msg("Failed to publish feed event")
	}
}

// UserService manages users and their friendships.
type UserService struct {
	store  storage.Store
	events EventPublisher
}

// NewUserService creates a user service. events may be nil, in which case
// no feed is recorded.
func NewUserService(store storage.Store, events EventPublisher) *UserService {
	return &UserService{store: store, events: events}
}

// AddUser validates and stores a new user. The id must be unset.
func (s *UserService) AddUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID != 0 {
		return nil, validation.NewFieldError("id", "id must not be set when creating a user")
	}
	user.ApplyDefaults()
	if err := validation.Validate(user); err != nil {
		return nil, err
	}

	created, err := s.store.AddUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}
	logging.CtxInfo(ctx).Int64("user_id", created.ID).Str("login", created.Login).Msg("User created")
	return created, nil
}

// UpdateUser validates and replaces an existing user.
func (s *UserService) UpdateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == 0 {
		return nil, validation.NewFieldError("id", "id is required when updating a user")
	}
	user.ApplyDefaults()
	if err := validation.Validate(user); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	logging.CtxInfo(ctx).Int64("user_id", updated.ID).Msg("User updated")
	return updated, nil
}

// GetUser returns the user or a not-found error.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// ListUsers returns all users ordered by id.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

// AddFriend makes friendID a friend of userID. The relation is one-way.
func (s *UserService) AddFriend(ctx context.Context, userID, friendID int64) error {
	if userID == friendID {
		return ErrSelfFriendship
	}
	if err := s.requireUsers(ctx, userID, friendID); err != nil {
		return err
	}

	if err := s.store.AddFriend(ctx, userID, friendID); err != nil {
		return fmt.Errorf("add friend: %w", err)
	}

	metrics.RecordFriendship(models.OperationAdd)
	logging.CtxInfo(ctx).Int64("user_id", userID).Int64("friend_id", friendID).Msg("Friend added")
	publish(ctx, s.events, models.NewFeedEvent(userID, models.EventTypeFriend, models.OperationAdd, friendID))
	return nil
}

// RemoveFriend deletes the friendship. Removing a missing friendship succeeds.
func (s *UserService) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	if err := s.requireUsers(ctx, userID, friendID); err != nil {
		return err
	}

	if err := s.store.RemoveFriend(ctx, userID, friendID); err != nil {
		return fmt.Errorf("remove friend: %w", err)
	}

	metrics.RecordFriendship(models.OperationRemove)
	logging.CtxInfo(ctx).Int64("user_id", userID).Int64("friend_id", friendID).Msg("Friend removed")
	publish(ctx, s.events, models.NewFeedEvent(userID, models.EventTypeFriend, models.OperationRemove, friendID))
	return nil
}

// ListFriends returns the users userID has added.
func (s *UserService) ListFriends(ctx context.Context, userID int64) ([]models.User, error) {
	if err := s.requireUsers(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListFriends(ctx, userID)
}

// CommonFriends returns the users both userID and otherID have added.
func (s *UserService) CommonFriends(ctx context.Context, userID, otherID int64) ([]models.User, error) {
	if err := s.requireUsers(ctx, userID, otherID); err != nil {
		return nil, err
	}
	return s.store.CommonFriends(ctx, userID, otherID)
}

// Feed returns the user's activity feed ordered by event id.
func (s *UserService) Feed(ctx context.Context, userID int64) ([]models.FeedEvent, error) {
	if err := s.requireUsers(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListFeed(ctx, userID)
}

func (s *UserService) requireUsers(ctx context.Context, ids ...int64) error {
	for _, id := range ids {
		if _, err := s.store.GetUser(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
