// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package models

import "strings"

// User is a registered Filmorate member.
//
// Example:
//
//	{
//	  "id": 1,
//	  "email": "mail@mail.ru",
//	  "login": "dolore",
//	  "name": "Nick Name",
//	  "birthday": "1946-08-20"
//	}
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email" validate:"required,email"`
	Login    string `json:"login" validate:"required,nowhitespace"`
	Name     string `json:"name"`
	Birthday Date   `json:"birthday" validate:"required,pastorpresent"`
}

// ApplyDefaults fills the display name from the login when it is blank.
func (u *User) ApplyDefaults() {
	if strings.TrimSpace(u.Name) == "" {
		u.Name = u.Login
	}
}

// Friendship statuses. Only confirmed one-directional friendships are stored.
const (
	FriendshipConfirmed = "CONFIRMED"
)

// Friendship is a directed edge from UserID to FriendID.
type Friendship struct {
	UserID   int64  `json:"userId"`
	FriendID int64  `json:"friendId"`
	Status   string `json:"status"`
}
