// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

// Package storagetest is a conformance suite for storage.Store backends.
//
//	func TestConformance(t *testing.T) {
//	    storagetest.Run(t, func(t *testing.T) storage.Store { return memory.New() })
//	}
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/filmorate/internal/models"
	"github.com/tomtom215/filmorate/internal/storage"
)

// Factory returns a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) storage.Store

// Run executes every conformance test against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"UserLifecycle", testUserLifecycle},
		{"UserNotFound", testUserNotFound},
		{"FilmLifecycle", testFilmLifecycle},
		{"FilmNotFound", testFilmNotFound},
		{"FilmReturnsCopies", testFilmReturnsCopies},
		{"Likes", testLikes},
		{"PopularFilms", testPopularFilms},
		{"Friendships", testFriendships},
		{"CommonFriends", testCommonFriends},
		{"ReferenceData", testReferenceData},
		{"Feed", testFeed},
		{"Ping", testPing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() {
				if err := s.Close(); err != nil {
					t.Errorf("Close() error: %v", err)
				}
			})
			tt.fn(t, s)
		})
	}
}

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return c
}

func newUser(login string) *models.User {
	return &models.User{
		Email:    login + "@filmorate.test",
		Login:    login,
		Name:     login,
		Birthday: models.NewDate(1990, time.January, 15),
	}
}

func newFilm(name string) *models.Film {
	return &models.Film{
		Name:        name,
		Description: name + " description",
		ReleaseDate: models.NewDate(2000, time.June, 1),
		Duration:    120,
		Mpa:         &models.MpaRating{ID: 1, Name: "G"},
	}
}

func mustAddUser(t *testing.T, s storage.Store, login string) *models.User {
	t.Helper()
	u, err := s.AddUser(ctx(t), newUser(login))
	if err != nil {
		t.Fatalf("AddUser(%s): %v", login, err)
	}
	return u
}

func mustAddFilm(t *testing.T, s storage.Store, name string) *models.Film {
	t.Helper()
	f, err := s.AddFilm(ctx(t), newFilm(name))
	if err != nil {
		t.Fatalf("AddFilm(%s): %v", name, err)
	}
	return f
}

func userIDs(users []models.User) []int64 {
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

func filmIDs(films []models.Film) []int64 {
	ids := make([]int64, len(films))
	for i, f := range films {
		ids[i] = f.ID
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func testUserLifecycle(t *testing.T, s storage.Store) {
	c := ctx(t)

	u1 := mustAddUser(t, s, "dolore")
	u2 := mustAddUser(t, s, "ullamco")
	if u1.ID <= 0 || u2.ID <= u1.ID {
		t.Fatalf("ids not increasing: %d, %d", u1.ID, u2.ID)
	}

	got, err := s.GetUser(c, u1.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Login != "dolore" || got.Email != "dolore@filmorate.test" {
		t.Errorf("GetUser = %+v", got)
	}
	if !got.Birthday.Equal(models.NewDate(1990, time.January, 15).Time) {
		t.Errorf("Birthday = %v", got.Birthday)
	}

	update := *u1
	update.Name = "Nick Name"
	update.Email = "nick@filmorate.test"
	updated, err := s.UpdateUser(c, &update)
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Name != "Nick Name" || updated.ID != u1.ID {
		t.Errorf("UpdateUser = %+v", updated)
	}

	got, err = s.GetUser(c, u1.ID)
	if err != nil {
		t.Fatalf("GetUser after update: %v", err)
	}
	if got.Email != "nick@filmorate.test" {
		t.Errorf("update not persisted: %+v", got)
	}

	all, err := s.ListUsers(c)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if !equalIDs(userIDs(all), []int64{u1.ID, u2.ID}) {
		t.Errorf("ListUsers ids = %v", userIDs(all))
	}
}

func testUserNotFound(t *testing.T, s storage.Store) {
	c := ctx(t)

	if _, err := s.GetUser(c, 9999); !storage.IsNotFound(err) {
		t.Errorf("GetUser(9999) error = %v, want not found", err)
	}

	missing := newUser("ghost")
	missing.ID = 9999
	_, err := s.UpdateUser(c, missing)
	var nf *storage.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("UpdateUser(9999) error = %v, want *NotFoundError", err)
	}
	if nf.Entity != storage.EntityUser || nf.ID != 9999 {
		t.Errorf("NotFoundError = %+v", nf)
	}

	users, err := s.ListUsers(c)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("failed update must not create a user, got %v", users)
	}
}

func testFilmLifecycle(t *testing.T, s storage.Store) {
	c := ctx(t)
	u := mustAddUser(t, s, "liker")

	input := newFilm("nisi eiusmod")
	input.Mpa = &models.MpaRating{ID: 3, Name: "PG-13"}
	input.Genres = []models.Genre{{ID: 4, Name: "Thriller"}, {ID: 1, Name: "Comedy"}}
	input.Likes = []int64{42}

	film, err := s.AddFilm(c, input)
	if err != nil {
		t.Fatalf("AddFilm: %v", err)
	}
	if film.ID <= 0 {
		t.Fatalf("AddFilm id = %d", film.ID)
	}
	if film.Mpa == nil || film.Mpa.ID != 3 || film.Mpa.Name != "PG-13" {
		t.Errorf("Mpa = %+v", film.Mpa)
	}
	if len(film.Genres) != 2 || film.Genres[0].ID != 1 || film.Genres[1].ID != 4 {
		t.Errorf("Genres = %+v, want ids [1 4]", film.Genres)
	}
	if film.Genres[0].Name != "Comedy" {
		t.Errorf("Genre name = %q, want Comedy", film.Genres[0].Name)
	}
	if len(film.Likes) != 0 {
		t.Errorf("likes on input must be ignored, got %v", film.Likes)
	}

	if err := s.AddLike(c, film.ID, u.ID); err != nil {
		t.Fatalf("AddLike: %v", err)
	}

	update := *film
	update.Name = "renamed"
	update.Duration = 90
	update.ReleaseDate = models.NewDate(1999, time.December, 31)
	update.Mpa = &models.MpaRating{ID: 5, Name: "NC-17"}
	update.Genres = []models.Genre{{ID: 2, Name: "Drama"}}
	update.Likes = nil

	updated, err := s.UpdateFilm(c, &update)
	if err != nil {
		t.Fatalf("UpdateFilm: %v", err)
	}
	if updated.Name != "renamed" || updated.Duration != 90 || updated.Mpa.ID != 5 {
		t.Errorf("UpdateFilm = %+v", updated)
	}
	if !updated.ReleaseDate.Equal(models.NewDate(1999, time.December, 31).Time) {
		t.Errorf("ReleaseDate = %v", updated.ReleaseDate)
	}
	if len(updated.Genres) != 1 || updated.Genres[0].ID != 2 {
		t.Errorf("genres must be replaced, got %+v", updated.Genres)
	}
	if !equalIDs(updated.Likes, []int64{u.ID}) {
		t.Errorf("likes must survive update, got %v", updated.Likes)
	}

	second := mustAddFilm(t, s, "second")
	all, err := s.ListFilms(c)
	if err != nil {
		t.Fatalf("ListFilms: %v", err)
	}
	if !equalIDs(filmIDs(all), []int64{film.ID, second.ID}) {
		t.Errorf("ListFilms ids = %v", filmIDs(all))
	}
	if all[1].Genres == nil || all[1].Likes == nil {
		t.Errorf("empty collections must be non-nil: %+v", all[1])
	}
}

func testFilmNotFound(t *testing.T, s storage.Store) {
	c := ctx(t)

	if _, err := s.GetFilm(c, 777); !storage.IsNotFound(err) {
		t.Errorf("GetFilm(777) error = %v, want not found", err)
	}

	missing := newFilm("ghost")
	missing.ID = 777
	if _, err := s.UpdateFilm(c, missing); !storage.IsNotFound(err) {
		t.Errorf("UpdateFilm(777) error = %v, want not found", err)
	}
}

func testFilmReturnsCopies(t *testing.T, s storage.Store) {
	c := ctx(t)

	input := newFilm("copy")
	input.Genres = []models.Genre{{ID: 1, Name: "Comedy"}}
	film, err := s.AddFilm(c, input)
	if err != nil {
		t.Fatalf("AddFilm: %v", err)
	}

	input.Genres[0].ID = 6
	film.Genres[0].ID = 5
	film.Mpa.ID = 4

	got, err := s.GetFilm(c, film.ID)
	if err != nil {
		t.Fatalf("GetFilm: %v", err)
	}
	if got.Genres[0].ID != 1 || got.Mpa.ID != 1 {
		t.Errorf("stored film changed through a returned value: %+v", got)
	}
}

func testLikes(t *testing.T, s storage.Store) {
	c := ctx(t)
	film := mustAddFilm(t, s, "liked")
	u1 := mustAddUser(t, s, "first")
	u2 := mustAddUser(t, s, "second")

	if err := s.AddLike(c, film.ID, u2.ID); err != nil {
		t.Fatalf("AddLike(u2): %v", err)
	}
	if err := s.AddLike(c, film.ID, u1.ID); err != nil {
		t.Fatalf("AddLike(u1): %v", err)
	}
	if err := s.AddLike(c, film.ID, u1.ID); !errors.Is(err, storage.ErrLikeExists) {
		t.Errorf("duplicate AddLike error = %v, want ErrLikeExists", err)
	}

	got, err := s.GetFilm(c, film.ID)
	if err != nil {
		t.Fatalf("GetFilm: %v", err)
	}
	if !equalIDs(got.Likes, []int64{u1.ID, u2.ID}) {
		t.Errorf("Likes = %v, want ascending [%d %d]", got.Likes, u1.ID, u2.ID)
	}

	if err := s.RemoveLike(c, film.ID, u1.ID); err != nil {
		t.Fatalf("RemoveLike: %v", err)
	}
	if err := s.RemoveLike(c, film.ID, u1.ID); !errors.Is(err, storage.ErrLikeNotFound) {
		t.Errorf("second RemoveLike error = %v, want ErrLikeNotFound", err)
	}

	got, err = s.GetFilm(c, film.ID)
	if err != nil {
		t.Fatalf("GetFilm: %v", err)
	}
	if !equalIDs(got.Likes, []int64{u2.ID}) {
		t.Errorf("Likes after remove = %v", got.Likes)
	}
}

func testPopularFilms(t *testing.T, s storage.Store) {
	c := ctx(t)
	f1 := mustAddFilm(t, s, "one")
	f2 := mustAddFilm(t, s, "two")
	f3 := mustAddFilm(t, s, "three")
	u1 := mustAddUser(t, s, "u1")
	u2 := mustAddUser(t, s, "u2")

	for _, like := range []struct{ film, user int64 }{
		{f1.ID, u1.ID},
		{f2.ID, u1.ID},
		{f2.ID, u2.ID},
	} {
		if err := s.AddLike(c, like.film, like.user); err != nil {
			t.Fatalf("AddLike: %v", err)
		}
	}

	top, err := s.PopularFilms(c, 2)
	if err != nil {
		t.Fatalf("PopularFilms(2): %v", err)
	}
	if !equalIDs(filmIDs(top), []int64{f2.ID, f1.ID}) {
		t.Errorf("PopularFilms(2) = %v, want [%d %d]", filmIDs(top), f2.ID, f1.ID)
	}
	if top[0].LikeCount() != 2 {
		t.Errorf("top film likes = %v", top[0].Likes)
	}

	all, err := s.PopularFilms(c, 10)
	if err != nil {
		t.Fatalf("PopularFilms(10): %v", err)
	}
	if !equalIDs(filmIDs(all), []int64{f2.ID, f1.ID, f3.ID}) {
		t.Errorf("PopularFilms(10) = %v", filmIDs(all))
	}

	// Ties fall back to ascending id.
	if err := s.AddLike(c, f3.ID, u1.ID); err != nil {
		t.Fatalf("AddLike: %v", err)
	}
	all, err = s.PopularFilms(c, 10)
	if err != nil {
		t.Fatalf("PopularFilms(10): %v", err)
	}
	if !equalIDs(filmIDs(all), []int64{f2.ID, f1.ID, f3.ID}) {
		t.Errorf("PopularFilms with tie = %v", filmIDs(all))
	}
}

func testFriendships(t *testing.T, s storage.Store) {
	c := ctx(t)
	u1 := mustAddUser(t, s, "u1")
	u2 := mustAddUser(t, s, "u2")
	u3 := mustAddUser(t, s, "u3")

	if err := s.AddFriend(c, u1.ID, u3.ID); err != nil {
		t.Fatalf("AddFriend: %v", err)
	}
	if err := s.AddFriend(c, u1.ID, u2.ID); err != nil {
		t.Fatalf("AddFriend: %v", err)
	}
	if err := s.AddFriend(c, u1.ID, u2.ID); !errors.Is(err, storage.ErrFriendExists) {
		t.Errorf("duplicate AddFriend error = %v, want ErrFriendExists", err)
	}

	friends, err := s.ListFriends(c, u1.ID)
	if err != nil {
		t.Fatalf("ListFriends: %v", err)
	}
	if !equalIDs(userIDs(friends), []int64{u2.ID, u3.ID}) {
		t.Errorf("ListFriends(u1) = %v", userIDs(friends))
	}

	// Friendship is one-directional.
	back, err := s.ListFriends(c, u2.ID)
	if err != nil {
		t.Fatalf("ListFriends: %v", err)
	}
	if len(back) != 0 {
		t.Errorf("ListFriends(u2) = %v, want empty", userIDs(back))
	}

	if err := s.RemoveFriend(c, u1.ID, u2.ID); err != nil {
		t.Fatalf("RemoveFriend: %v", err)
	}
	if err := s.RemoveFriend(c, u1.ID, u2.ID); err != nil {
		t.Errorf("removing a missing friendship should be silent, got %v", err)
	}

	friends, err = s.ListFriends(c, u1.ID)
	if err != nil {
		t.Fatalf("ListFriends: %v", err)
	}
	if !equalIDs(userIDs(friends), []int64{u3.ID}) {
		t.Errorf("ListFriends after remove = %v", userIDs(friends))
	}
}

func testCommonFriends(t *testing.T, s storage.Store) {
	c := ctx(t)
	u1 := mustAddUser(t, s, "u1")
	u2 := mustAddUser(t, s, "u2")
	u3 := mustAddUser(t, s, "u3")
	u4 := mustAddUser(t, s, "u4")

	for _, edge := range [][2]int64{
		{u1.ID, u3.ID},
		{u2.ID, u3.ID},
		{u1.ID, u4.ID},
	} {
		if err := s.AddFriend(c, edge[0], edge[1]); err != nil {
			t.Fatalf("AddFriend: %v", err)
		}
	}

	common, err := s.CommonFriends(c, u1.ID, u2.ID)
	if err != nil {
		t.Fatalf("CommonFriends: %v", err)
	}
	if !equalIDs(userIDs(common), []int64{u3.ID}) {
		t.Errorf("CommonFriends = %v, want [%d]", userIDs(common), u3.ID)
	}
	if common[0].Login != "u3" {
		t.Errorf("common friend = %+v", common[0])
	}

	none, err := s.CommonFriends(c, u1.ID, u4.ID)
	if err != nil {
		t.Fatalf("CommonFriends: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("CommonFriends(u1,u4) = %v, want empty", userIDs(none))
	}
}

func testReferenceData(t *testing.T, s storage.Store) {
	c := ctx(t)

	genres, err := s.ListGenres(c)
	if err != nil {
		t.Fatalf("ListGenres: %v", err)
	}
	want := models.DefaultGenres()
	if len(genres) != len(want) {
		t.Fatalf("ListGenres len = %d, want %d", len(genres), len(want))
	}
	for i := range want {
		if genres[i] != want[i] {
			t.Errorf("genre[%d] = %+v, want %+v", i, genres[i], want[i])
		}
	}

	g, err := s.GetGenre(c, 3)
	if err != nil || g.Name != "Cartoon" {
		t.Errorf("GetGenre(3) = %+v, %v", g, err)
	}
	if _, err := s.GetGenre(c, 99); !storage.IsNotFound(err) {
		t.Errorf("GetGenre(99) error = %v, want not found", err)
	}

	ratings, err := s.ListMpaRatings(c)
	if err != nil {
		t.Fatalf("ListMpaRatings: %v", err)
	}
	wantMpa := models.DefaultMpaRatings()
	if len(ratings) != len(wantMpa) {
		t.Fatalf("ListMpaRatings len = %d, want %d", len(ratings), len(wantMpa))
	}
	for i := range wantMpa {
		if ratings[i] != wantMpa[i] {
			t.Errorf("mpa[%d] = %+v, want %+v", i, ratings[i], wantMpa[i])
		}
	}

	m, err := s.GetMpaRating(c, 5)
	if err != nil || m.Name != "NC-17" {
		t.Errorf("GetMpaRating(5) = %+v, %v", m, err)
	}
	if _, err := s.GetMpaRating(c, 0); !storage.IsNotFound(err) {
		t.Errorf("GetMpaRating(0) error = %v, want not found", err)
	}
}

func testFeed(t *testing.T, s storage.Store) {
	c := ctx(t)

	events := []models.FeedEvent{
		models.NewFeedEvent(1, models.EventTypeLike, models.OperationAdd, 10),
		models.NewFeedEvent(2, models.EventTypeFriend, models.OperationAdd, 1),
		models.NewFeedEvent(1, models.EventTypeLike, models.OperationRemove, 10),
	}
	var lastID int64
	for i := range events {
		if err := s.AddFeedEvent(c, &events[i]); err != nil {
			t.Fatalf("AddFeedEvent: %v", err)
		}
		if events[i].EventID <= lastID {
			t.Errorf("event ids not increasing: %d after %d", events[i].EventID, lastID)
		}
		lastID = events[i].EventID
	}

	feed, err := s.ListFeed(c, 1)
	if err != nil {
		t.Fatalf("ListFeed: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("ListFeed(1) len = %d, want 2", len(feed))
	}
	if feed[0].Operation != models.OperationAdd || feed[1].Operation != models.OperationRemove {
		t.Errorf("feed order = %+v", feed)
	}
	if feed[0].EntityID != 10 || feed[0].Timestamp != events[0].Timestamp {
		t.Errorf("feed[0] = %+v, want %+v", feed[0], events[0])
	}

	empty, err := s.ListFeed(c, 42)
	if err != nil {
		t.Fatalf("ListFeed(42): %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("ListFeed(42) = %#v, want empty non-nil slice", empty)
	}
}

func testPing(t *testing.T, s storage.Store) {
	if err := s.Ping(ctx(t)); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
