// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

// Package storage defines the repository contracts shared by every Filmorate
// backend (memory, database, badgerstore).
//
// Each backend owns its id sequences. Entities are created and replaced but
// never deleted. Returned values are owned by the caller.
package storage

import (
	"context"

	"github.com/tomtom215/filmorate/internal/models"
)

// UserStorage persists users.
type UserStorage interface {
	// AddUser assigns a new id and stores the user.
	AddUser(ctx context.Context, user *models.User) (*models.User, error)

	// UpdateUser replaces the stored user with the same id.
	// Returns a *NotFoundError if the id is unknown.
	UpdateUser(ctx context.Context, user *models.User) (*models.User, error)

	// GetUser returns a *NotFoundError if the id is unknown.
	GetUser(ctx context.Context, id int64) (*models.User, error)

	// ListUsers returns all users ordered by id.
	ListUsers(ctx context.Context) ([]models.User, error)
}

// FilmStorage persists films together with their genres and likes.
type FilmStorage interface {
	// AddFilm assigns a new id and stores the film and its genres.
	// Likes on the input are ignored.
	AddFilm(ctx context.Context, film *models.Film) (*models.Film, error)

	// UpdateFilm replaces the scalar fields and genres of an existing film.
	// Likes are preserved. Returns a *NotFoundError if the id is unknown.
	UpdateFilm(ctx context.Context, film *models.Film) (*models.Film, error)

	// GetFilm returns a *NotFoundError if the id is unknown.
	GetFilm(ctx context.Context, id int64) (*models.Film, error)

	// ListFilms returns all films ordered by id.
	ListFilms(ctx context.Context) ([]models.Film, error)

	// AddLike returns ErrLikeExists if userID already liked filmID.
	AddLike(ctx context.Context, filmID, userID int64) error

	// RemoveLike returns ErrLikeNotFound if there is no such like.
	RemoveLike(ctx context.Context, filmID, userID int64) error

	// PopularFilms returns at most count films ordered by like count
	// descending, then by id ascending.
	PopularFilms(ctx context.Context, count int) ([]models.Film, error)
}

// FriendshipStorage persists directed friendships.
type FriendshipStorage interface {
	// AddFriend returns ErrFriendExists if the edge is already present.
	AddFriend(ctx context.Context, userID, friendID int64) error

	// RemoveFriend deletes the edge. A missing edge is not an error.
	RemoveFriend(ctx context.Context, userID, friendID int64) error

	// ListFriends returns the users userID has added, ordered by id.
	ListFriends(ctx context.Context, userID int64) ([]models.User, error)

	// CommonFriends returns users present in both friend lists, ordered by id.
	CommonFriends(ctx context.Context, userID, otherID int64) ([]models.User, error)
}

// GenreStorage reads genre reference data.
type GenreStorage interface {
	ListGenres(ctx context.Context) ([]models.Genre, error)
	GetGenre(ctx context.Context, id int) (*models.Genre, error)
}

// MpaStorage reads MPA rating reference data.
type MpaStorage interface {
	ListMpaRatings(ctx context.Context) ([]models.MpaRating, error)
	GetMpaRating(ctx context.Context, id int) (*models.MpaRating, error)
}

// FeedStorage persists activity feed events.
type FeedStorage interface {
	// AddFeedEvent assigns event.EventID and stores the event.
	AddFeedEvent(ctx context.Context, event *models.FeedEvent) error

	// ListFeed returns the user's events ordered by event id.
	ListFeed(ctx context.Context, userID int64) ([]models.FeedEvent, error)
}

// Store is the full repository injected into the service layer.
type Store interface {
	UserStorage
	FilmStorage
	FriendshipStorage
	GenreStorage
	MpaStorage
	FeedStorage

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
