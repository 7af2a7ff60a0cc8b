// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package models

import (
	"sort"
	"time"
)

// EarliestReleaseDate is the first public film screening (28 December 1895).
// No film may be released before it.
var EarliestReleaseDate = NewDate(1895, time.December, 28)

// MaxDescriptionLength is the limit on Film.Description in characters.
const MaxDescriptionLength = 200

// DefaultMpaID is assigned to films created without an MPA rating.
const DefaultMpaID = 1

// Film is a catalog entry.
//
// Likes holds the ids of users who liked the film. It is always emitted in
// ascending order and is ignored when a film is created or updated.
//
// Example:
//
//	{
//	  "id": 1,
//	  "name": "nisi eiusmod",
//	  "description": "adipisicing",
//	  "releaseDate": "1967-03-25",
//	  "duration": 100,
//	  "mpa": {"id": 1, "name": "G"},
//	  "genres": [{"id": 1, "name": "Comedy"}],
//	  "likes": [2, 3]
//	}
type Film struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name" validate:"notblank"`
	Description string     `json:"description" validate:"max=200"`
	ReleaseDate Date       `json:"releaseDate" validate:"required,releasedate"`
	Duration    int        `json:"duration" validate:"gt=0"`
	Mpa         *MpaRating `json:"mpa"`
	Genres      []Genre    `json:"genres"`
	Likes       []int64    `json:"likes"`
}

// LikeCount returns the number of users who liked the film.
func (f *Film) LikeCount() int {
	return len(f.Likes)
}

// NormalizeCollections makes Genres and Likes non-nil and sorted by id
// so that every backend encodes films identically.
func (f *Film) NormalizeCollections() {
	if f.Genres == nil {
		f.Genres = []Genre{}
	}
	if f.Likes == nil {
		f.Likes = []int64{}
	}
	sort.Slice(f.Genres, func(i, j int) bool { return f.Genres[i].ID < f.Genres[j].ID })
	sort.Slice(f.Likes, func(i, j int) bool { return f.Likes[i] < f.Likes[j] })
}

// SortByPopularity orders films by like count descending, breaking ties by
// ascending id.
func SortByPopularity(films []Film) {
	sort.SliceStable(films, func(i, j int) bool {
		li, lj := films[i].LikeCount(), films[j].LikeCount()
		if li != lj {
			return li > lj
		}
		return films[i].ID < films[j].ID
	})
}
