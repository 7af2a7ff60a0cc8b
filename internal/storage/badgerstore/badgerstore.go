// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

// Package badgerstore implements storage.Store on BadgerDB.
//
// Entities are JSON documents under zero-padded id keys so that a prefix
// scan yields them in id order. Relations are empty-valued edge keys:
//
//	user:<id>                  models.User
//	film:<id>                  models.Film without likes
//	like:<filmID>:<userID>     ""
//	friend:<userID>:<friendID> status
//	feed:<userID>:<eventID>    models.FeedEvent
//	genre:<id>, mpa:<id>       reference rows
//
// Ids come from Badger sequences, one per entity kind.
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/filmorate/internal/logging"
	"github.com/tomtom215/filmorate/internal/models"
	"github.com/tomtom215/filmorate/internal/storage"
)

const (
	prefixUser   = "user:"
	prefixFilm   = "film:"
	prefixLike   = "like:"
	prefixFriend = "friend:"
	prefixFeed   = "feed:"
	prefixGenre  = "genre:"
	prefixMpa    = "mpa:"

	seqUser  = "seq:user"
	seqFilm  = "seq:film"
	seqEvent = "seq:event"

	// sequenceBandwidth is how many ids a sequence leases per disk write.
	sequenceBandwidth = 100

	// maxConflictRetries bounds retries of a transaction that lost a write race.
	maxConflictRetries = 5
)

// Config holds BadgerDB settings.
type Config struct {
	Path     string
	InMemory bool
}

// Store is a BadgerDB-backed storage.Store.
type Store struct {
	db       *badger.DB
	inMemory bool

	userSeq  *badger.Sequence
	filmSeq  *badger.Sequence
	eventSeq *badger.Sequence
}

var _ storage.Store = (*Store)(nil)

// Open opens (or creates) the database and seeds reference data.
func Open(cfg Config) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB internal logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	s, err := NewFromDB(db, cfg.InMemory)
	if err != nil {
		closeQuietly(db)
		return nil, err
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("BadgerDB store opened")
	return s, nil
}

// NewFromDB wraps an open database. The Store takes ownership of db.
func NewFromDB(db *badger.DB, inMemory bool) (*Store, error) {
	s := &Store{db: db, inMemory: inMemory}

	var err error
	if s.userSeq, err = db.GetSequence([]byte(seqUser), sequenceBandwidth); err != nil {
		return nil, fmt.Errorf("user sequence: %w", err)
	}
	if s.filmSeq, err = db.GetSequence([]byte(seqFilm), sequenceBandwidth); err != nil {
		s.releaseSequences()
		return nil, fmt.Errorf("film sequence: %w", err)
	}
	if s.eventSeq, err = db.GetSequence([]byte(seqEvent), sequenceBandwidth); err != nil {
		s.releaseSequences()
		return nil, fmt.Errorf("event sequence: %w", err)
	}

	if err := s.seedReferenceData(); err != nil {
		s.releaseSequences()
		return nil, err
	}
	return s, nil
}

func closeQuietly(db *badger.DB) {
	if err := db.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close BadgerDB")
	}
}

// Ping runs an empty read transaction.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return errors.New("badger db is closed")
	}
	return s.db.View(func(txn *badger.Txn) error { return nil })
}

// Close releases the sequences and closes the database.
func (s *Store) Close() error {
	s.releaseSequences()
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close badger db: %w", err)
	}
	return nil
}

func (s *Store) releaseSequences() {
	for _, seq := range []*badger.Sequence{s.userSeq, s.filmSeq, s.eventSeq} {
		if seq == nil {
			continue
		}
		if err := seq.Release(); err != nil {
			logging.Warn().Err(err).Msg("Failed to release badger sequence")
		}
	}
}

// RunGC reclaims value log space until nothing is left to rewrite.
// It is a no-op for in-memory databases.
func (s *Store) RunGC(ratio float64) error {
	if s.inMemory {
		return nil
	}
	for {
		err := s.db.RunValueLogGC(ratio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// ---- keys ----

func idKey(prefix string, id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefix, id))
}

func edgePrefix(prefix string, from int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:", prefix, from))
}

func edgeKey(prefix string, from, to int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:%020d", prefix, from, to))
}

// edgeTarget parses the trailing id of an edge key.
func edgeTarget(key []byte) (int64, error) {
	k := string(key)
	idx := strings.LastIndexByte(k, ':')
	if idx < 0 {
		return 0, fmt.Errorf("malformed edge key %q", k)
	}
	return strconv.ParseInt(k[idx+1:], 10, 64)
}

func nextID(seq *badger.Sequence) (int64, error) {
	n, err := seq.Next()
	if err != nil {
		return 0, fmt.Errorf("next sequence value: %w", err)
	}
	// Sequences start at 0; ids start at 1.
	return int64(n) + 1, nil
}

// ---- transaction helpers ----

// update runs fn in a read-write transaction, retrying on write conflicts.
func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * time.Millisecond)
	}
	return fmt.Errorf("transaction conflict after %d attempts: %w", maxConflictRetries, err)
}

func getJSON(txn *badger.Txn, key []byte, dst interface{}) (bool, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, dst)
	}); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func setJSON(txn *badger.Txn, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := txn.Set(key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	return true, nil
}

// scanJSON decodes every value under prefix, in key order.
func scanJSON[T any](txn *badger.Txn, prefix []byte) ([]T, error) {
	out := make([]T, 0)

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var v T
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &v)
		}); err != nil {
			return nil, fmt.Errorf("decode %s: %w", it.Item().Key(), err)
		}
		out = append(out, v)
	}
	return out, nil
}

// scanEdges returns the target ids of every edge under prefix, ascending.
func scanEdges(txn *badger.Txn, prefix []byte) ([]int64, error) {
	ids := make([]int64, 0)

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		id, err := edgeTarget(it.Item().Key())
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ---- reference data ----

func (s *Store) seedReferenceData() error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, g := range models.DefaultGenres() {
			if err := setIfAbsent(txn, idKey(prefixGenre, int64(g.ID)), g); err != nil {
				return err
			}
		}
		for _, m := range models.DefaultMpaRatings() {
			if err := setIfAbsent(txn, idKey(prefixMpa, int64(m.ID)), m); err != nil {
				return err
			}
		}
		return nil
	})
}

func setIfAbsent(txn *badger.Txn, key []byte, v interface{}) error {
	ok, err := exists(txn, key)
	if err != nil || ok {
		return err
	}
	return setJSON(txn, key, v)
}

func (s *Store) ListGenres(_ context.Context) ([]models.Genre, error) {
	var out []models.Genre
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = scanJSON[models.Genre](txn, []byte(prefixGenre))
		return err
	})
	return out, err
}

func (s *Store) GetGenre(_ context.Context, id int) (*models.Genre, error) {
	var g models.Genre
	err := s.db.View(func(txn *badger.Txn) error {
		ok, err := getJSON(txn, idKey(prefixGenre, int64(id)), &g)
		if err != nil {
			return err
		}
		if !ok {
			return storage.NewNotFoundError(storage.EntityGenre, int64(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) ListMpaRatings(_ context.Context) ([]models.MpaRating, error) {
	var out []models.MpaRating
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = scanJSON[models.MpaRating](txn, []byte(prefixMpa))
		return err
	})
	return out, err
}

func (s *Store) GetMpaRating(_ context.Context, id int) (*models.MpaRating, error) {
	var m models.MpaRating
	err := s.db.View(func(txn *badger.Txn) error {
		ok, err := getJSON(txn, idKey(prefixMpa, int64(id)), &m)
		if err != nil {
			return err
		}
		if !ok {
			return storage.NewNotFoundError(storage.EntityMpa, int64(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}
