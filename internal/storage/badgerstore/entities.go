// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package badgerstore

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/filmorate/internal/models"
	"github.com/tomtom215/filmorate/internal/storage"
)

// ---- users ----

func (s *Store) AddUser(ctx context.Context, user *models.User) (*models.User, error) {
	id, err := nextID(s.userSeq)
	if err != nil {
		return nil, err
	}
	stored := *user
	stored.ID = id

	if err := s.update(ctx, func(txn *badger.Txn) error {
		return setJSON(txn, idKey(prefixUser, id), stored)
	}); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) (*models.User, error) {
	stored := *user
	err := s.update(ctx, func(txn *badger.Txn) error {
		key := idKey(prefixUser, user.ID)
		ok, err := exists(txn, key)
		if err != nil {
			return err
		}
		if !ok {
			return storage.NewNotFoundError(storage.EntityUser, user.ID)
		}
		return setJSON(txn, key, stored)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.db.View(func(txn *badger.Txn) error {
		ok, err := getJSON(txn, idKey(prefixUser, id), &u)
		if err != nil {
			return err
		}
		if !ok {
			return storage.NewNotFoundError(storage.EntityUser, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	var out []models.User
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = scanJSON[models.User](txn, []byte(prefixUser))
		return err
	})
	return out, err
}

// usersByIDs loads users in the order of ids, skipping unknown ones.
func usersByIDs(txn *badger.Txn, ids []int64) ([]models.User, error) {
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		var u models.User
		ok, err := getJSON(txn, idKey(prefixUser, id), &u)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// ---- films ----

func (s *Store) AddFilm(ctx context.Context, film *models.Film) (*models.Film, error) {
	id, err := nextID(s.filmSeq)
	if err != nil {
		return nil, err
	}
	doc := filmDocument(film)
	doc.ID = id

	if err := s.update(ctx, func(txn *badger.Txn) error {
		return setJSON(txn, idKey(prefixFilm, id), doc)
	}); err != nil {
		return nil, err
	}
	return s.GetFilm(ctx, id)
}

func (s *Store) UpdateFilm(ctx context.Context, film *models.Film) (*models.Film, error) {
	doc := filmDocument(film)
	err := s.update(ctx, func(txn *badger.Txn) error {
		key := idKey(prefixFilm, film.ID)
		ok, err := exists(txn, key)
		if err != nil {
			return err
		}
		if !ok {
			return storage.NewNotFoundError(storage.EntityFilm, film.ID)
		}
		return setJSON(txn, key, doc)
	})
	if err != nil {
		return nil, err
	}
	return s.GetFilm(ctx, film.ID)
}

func (s *Store) GetFilm(_ context.Context, id int64) (*models.Film, error) {
	var f models.Film
	err := s.db.View(func(txn *badger.Txn) error {
		ok, err := getJSON(txn, idKey(prefixFilm, id), &f)
		if err != nil {
			return err
		}
		if !ok {
			return storage.NewNotFoundError(storage.EntityFilm, id)
		}
		f.Likes, err = scanEdges(txn, edgePrefix(prefixLike, id))
		return err
	})
	if err != nil {
		return nil, err
	}
	f.NormalizeCollections()
	return &f, nil
}

func (s *Store) ListFilms(_ context.Context) ([]models.Film, error) {
	var out []models.Film
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = loadFilms(txn)
		return err
	})
	return out, err
}

func (s *Store) AddLike(ctx context.Context, filmID, userID int64) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		ok, err := exists(txn, idKey(prefixFilm, filmID))
		if err != nil {
			return err
		}
		if !ok {
			return storage.NewNotFoundError(storage.EntityFilm, filmID)
		}

		key := edgeKey(prefixLike, filmID, userID)
		if dup, err := exists(txn, key); err != nil {
			return err
		} else if dup {
			return storage.ErrLikeExists
		}
		return txn.Set(key, nil)
	})
}

func (s *Store) RemoveLike(ctx context.Context, filmID, userID int64) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		key := edgeKey(prefixLike, filmID, userID)
		ok, err := exists(txn, key)
		if err != nil {
			return err
		}
		if !ok {
			return storage.ErrLikeNotFound
		}
		return txn.Delete(key)
	})
}

func (s *Store) PopularFilms(ctx context.Context, count int) ([]models.Film, error) {
	films, err := s.ListFilms(ctx)
	if err != nil {
		return nil, err
	}
	models.SortByPopularity(films)
	if count >= 0 && count < len(films) {
		films = films[:count]
	}
	return films, nil
}

// loadFilms returns every film with its likes, ordered by id.
func loadFilms(txn *badger.Txn) ([]models.Film, error) {
	films, err := scanJSON[models.Film](txn, []byte(prefixFilm))
	if err != nil {
		return nil, err
	}
	for i := range films {
		films[i].Likes, err = scanEdges(txn, edgePrefix(prefixLike, films[i].ID))
		if err != nil {
			return nil, err
		}
		films[i].NormalizeCollections()
	}
	return films, nil
}

// filmDocument strips likes, which live under their own keys.
func filmDocument(f *models.Film) models.Film {
	doc := *f
	doc.Genres = append([]models.Genre(nil), f.Genres...)
	doc.NormalizeCollections()
	doc.Likes = nil
	return doc
}

// ---- friendships ----

func (s *Store) AddFriend(ctx context.Context, userID, friendID int64) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		key := edgeKey(prefixFriend, userID, friendID)
		if dup, err := exists(txn, key); err != nil {
			return err
		} else if dup {
			return storage.ErrFriendExists
		}
		return txn.Set(key, []byte(models.FriendshipConfirmed))
	})
}

func (s *Store) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		return txn.Delete(edgeKey(prefixFriend, userID, friendID))
	})
}

func (s *Store) ListFriends(_ context.Context, userID int64) ([]models.User, error) {
	var out []models.User
	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := scanEdges(txn, edgePrefix(prefixFriend, userID))
		if err != nil {
			return err
		}
		out, err = usersByIDs(txn, ids)
		return err
	})
	return out, err
}

func (s *Store) CommonFriends(_ context.Context, userID, otherID int64) ([]models.User, error) {
	var out []models.User
	err := s.db.View(func(txn *badger.Txn) error {
		mine, err := scanEdges(txn, edgePrefix(prefixFriend, userID))
		if err != nil {
			return err
		}
		theirs, err := scanEdges(txn, edgePrefix(prefixFriend, otherID))
		if err != nil {
			return err
		}
		out, err = usersByIDs(txn, intersectSorted(mine, theirs))
		return err
	})
	return out, err
}

// intersectSorted merges two ascending id lists.
func intersectSorted(a, b []int64) []int64 {
	out := make([]int64, 0)
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// ---- feed ----

func (s *Store) AddFeedEvent(ctx context.Context, event *models.FeedEvent) error {
	id, err := nextID(s.eventSeq)
	if err != nil {
		return err
	}
	stored := *event
	stored.EventID = id

	if err := s.update(ctx, func(txn *badger.Txn) error {
		return setJSON(txn, edgeKey(prefixFeed, stored.UserID, id), stored)
	}); err != nil {
		return err
	}
	event.EventID = id
	return nil
}

func (s *Store) ListFeed(_ context.Context, userID int64) ([]models.FeedEvent, error) {
	var out []models.FeedEvent
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = scanJSON[models.FeedEvent](txn, edgePrefix(prefixFeed, userID))
		return err
	})
	return out, err
}
