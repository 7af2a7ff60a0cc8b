// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

// Package memory is a map-backed storage.Store for tests and development.
// Each collection has its own RWMutex and locks are never nested.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/filmorate/internal/models"
	"github.com/tomtom215/filmorate/internal/storage"
)

// Store is an in-memory implementation of storage.Store.
type Store struct {
	usersMu    sync.RWMutex
	users      map[int64]models.User
	nextUserID int64

	filmsMu    sync.RWMutex
	films      map[int64]models.Film
	likes      map[int64]map[int64]struct{} // film id -> user ids
	nextFilmID int64

	friendsMu sync.RWMutex
	friends   map[int64]map[int64]struct{} // user id -> friend ids

	feedMu      sync.RWMutex
	feed        []models.FeedEvent
	nextEventID int64

	genres []models.Genre
	mpa    []models.MpaRating
}

var _ storage.Store = (*Store)(nil)

// New returns an empty store seeded with the reference genres and ratings.
func New() *Store {
	return &Store{
		users:   make(map[int64]models.User),
		films:   make(map[int64]models.Film),
		likes:   make(map[int64]map[int64]struct{}),
		friends: make(map[int64]map[int64]struct{}),
		genres:  models.DefaultGenres(),
		mpa:     models.DefaultMpaRatings(),
	}
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// ---- users ----

func (s *Store) AddUser(_ context.Context, user *models.User) (*models.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	s.nextUserID++
	stored := *user
	stored.ID = s.nextUserID
	s.users[stored.ID] = stored

	out := stored
	return &out, nil
}

func (s *Store) UpdateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return nil, storage.NewNotFoundError(storage.EntityUser, user.ID)
	}
	stored := *user
	s.users[stored.ID] = stored

	out := stored
	return &out, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.NewNotFoundError(storage.EntityUser, id)
	}
	return &u, nil
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sortUsers(out)
	return out, nil
}

// usersByID resolves ids to users, skipping unknown ids, ordered by id.
func (s *Store) usersByID(ids []int64) []models.User {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	sortUsers(out)
	return out
}

func sortUsers(users []models.User) {
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
}

// ---- films ----

func (s *Store) AddFilm(_ context.Context, film *models.Film) (*models.Film, error) {
	s.filmsMu.Lock()
	defer s.filmsMu.Unlock()

	s.nextFilmID++
	stored := copyFilm(film)
	stored.ID = s.nextFilmID
	stored.Likes = nil
	s.films[stored.ID] = stored
	s.likes[stored.ID] = make(map[int64]struct{})

	return s.filmLocked(stored.ID), nil
}

func (s *Store) UpdateFilm(_ context.Context, film *models.Film) (*models.Film, error) {
	s.filmsMu.Lock()
	defer s.filmsMu.Unlock()

	if _, ok := s.films[film.ID]; !ok {
		return nil, storage.NewNotFoundError(storage.EntityFilm, film.ID)
	}
	stored := copyFilm(film)
	stored.Likes = nil
	s.films[stored.ID] = stored

	return s.filmLocked(stored.ID), nil
}

func (s *Store) GetFilm(_ context.Context, id int64) (*models.Film, error) {
	s.filmsMu.RLock()
	defer s.filmsMu.RUnlock()

	if _, ok := s.films[id]; !ok {
		return nil, storage.NewNotFoundError(storage.EntityFilm, id)
	}
	return s.filmLocked(id), nil
}

func (s *Store) ListFilms(_ context.Context) ([]models.Film, error) {
	s.filmsMu.RLock()
	defer s.filmsMu.RUnlock()

	out := s.allFilmsLocked()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) AddLike(_ context.Context, filmID, userID int64) error {
	s.filmsMu.Lock()
	defer s.filmsMu.Unlock()

	likes, ok := s.likes[filmID]
	if !ok {
		return storage.NewNotFoundError(storage.EntityFilm, filmID)
	}
	if _, dup := likes[userID]; dup {
		return storage.ErrLikeExists
	}
	likes[userID] = struct{}{}
	return nil
}

func (s *Store) RemoveLike(_ context.Context, filmID, userID int64) error {
	s.filmsMu.Lock()
	defer s.filmsMu.Unlock()

	likes, ok := s.likes[filmID]
	if !ok {
		return storage.NewNotFoundError(storage.EntityFilm, filmID)
	}
	if _, liked := likes[userID]; !liked {
		return storage.ErrLikeNotFound
	}
	delete(likes, userID)
	return nil
}

func (s *Store) PopularFilms(_ context.Context, count int) ([]models.Film, error) {
	s.filmsMu.RLock()
	films := s.allFilmsLocked()
	s.filmsMu.RUnlock()

	models.SortByPopularity(films)
	if count >= 0 && count < len(films) {
		films = films[:count]
	}
	return films, nil
}

// filmLocked returns a copy of the film with its likes; filmsMu must be held.
func (s *Store) filmLocked(id int64) *models.Film {
	stored := s.films[id]
	f := copyFilm(&stored)
	f.Likes = make([]int64, 0, len(s.likes[id]))
	for userID := range s.likes[id] {
		f.Likes = append(f.Likes, userID)
	}
	f.NormalizeCollections()
	return &f
}

func (s *Store) allFilmsLocked() []models.Film {
	out := make([]models.Film, 0, len(s.films))
	for id := range s.films {
		out = append(out, *s.filmLocked(id))
	}
	return out
}

func copyFilm(f *models.Film) models.Film {
	out := *f
	if f.Mpa != nil {
		mpa := *f.Mpa
		out.Mpa = &mpa
	}
	out.Genres = append([]models.Genre(nil), f.Genres...)
	out.Likes = append([]int64(nil), f.Likes...)
	return out
}

// ---- friendships ----

func (s *Store) AddFriend(_ context.Context, userID, friendID int64) error {
	s.friendsMu.Lock()
	defer s.friendsMu.Unlock()

	set, ok := s.friends[userID]
	if !ok {
		set = make(map[int64]struct{})
		s.friends[userID] = set
	}
	if _, dup := set[friendID]; dup {
		return storage.ErrFriendExists
	}
	set[friendID] = struct{}{}
	return nil
}

func (s *Store) RemoveFriend(_ context.Context, userID, friendID int64) error {
	s.friendsMu.Lock()
	defer s.friendsMu.Unlock()

	delete(s.friends[userID], friendID)
	return nil
}

func (s *Store) ListFriends(_ context.Context, userID int64) ([]models.User, error) {
	return s.usersByID(s.friendIDs(userID)), nil
}

func (s *Store) CommonFriends(_ context.Context, userID, otherID int64) ([]models.User, error) {
	s.friendsMu.RLock()
	var common []int64
	for id := range s.friends[userID] {
		if _, ok := s.friends[otherID][id]; ok {
			common = append(common, id)
		}
	}
	s.friendsMu.RUnlock()

	return s.usersByID(common), nil
}

func (s *Store) friendIDs(userID int64) []int64 {
	s.friendsMu.RLock()
	defer s.friendsMu.RUnlock()

	ids := make([]int64, 0, len(s.friends[userID]))
	for id := range s.friends[userID] {
		ids = append(ids, id)
	}
	return ids
}

// ---- reference data ----

func (s *Store) ListGenres(_ context.Context) ([]models.Genre, error) {
	return append([]models.Genre(nil), s.genres...), nil
}

func (s *Store) GetGenre(_ context.Context, id int) (*models.Genre, error) {
	for _, g := range s.genres {
		if g.ID == id {
			out := g
			return &out, nil
		}
	}
	return nil, storage.NewNotFoundError(storage.EntityGenre, int64(id))
}

func (s *Store) ListMpaRatings(_ context.Context) ([]models.MpaRating, error) {
	return append([]models.MpaRating(nil), s.mpa...), nil
}

func (s *Store) GetMpaRating(_ context.Context, id int) (*models.MpaRating, error) {
	for _, m := range s.mpa {
		if m.ID == id {
			out := m
			return &out, nil
		}
	}
	return nil, storage.NewNotFoundError(storage.EntityMpa, int64(id))
}

// ---- feed ----

func (s *Store) AddFeedEvent(_ context.Context, event *models.FeedEvent) error {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()

	s.nextEventID++
	event.EventID = s.nextEventID
	s.feed = append(s.feed, *event)
	return nil
}

func (s *Store) ListFeed(_ context.Context, userID int64) ([]models.FeedEvent, error) {
	s.feedMu.RLock()
	defer s.feedMu.RUnlock()

	out := make([]models.FeedEvent, 0)
	for _, e := range s.feed {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}
