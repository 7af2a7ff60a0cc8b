// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/filmorate/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

func validFilm() models.Film {
	return models.Film{
		Name:        "nisi eiusmod",
		Description: "adipisicing",
		ReleaseDate: models.NewDate(1967, time.March, 25),
		Duration:    100,
	}
}

func validUser() models.User {
	return models.User{
		Email:    "mail@mail.ru",
		Login:    "dolore",
		Birthday: models.NewDate(1946, time.August, 20),
	}
}

func TestValidateFilm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(f *models.Film)
		wantField string
		wantTag   string
	}{
		{name: "valid", mutate: func(f *models.Film) {}},
		{
			name:   "release on the earliest date",
			mutate: func(f *models.Film) { f.ReleaseDate = models.EarliestReleaseDate },
		},
		{
			name:   "description exactly 200 characters",
			mutate: func(f *models.Film) { f.Description = strings.Repeat("я", 200) },
		},
		{
			name:      "blank name",
			mutate:    func(f *models.Film) { f.Name = "  " },
			wantField: "name",
			wantTag:   "notblank",
		},
		{
			name:      "description too long",
			mutate:    func(f *models.Film) { f.Description = strings.Repeat("a", 201) },
			wantField: "description",
			wantTag:   "max",
		},
		{
			name:      "release before 1895-12-28",
			mutate:    func(f *models.Film) { f.ReleaseDate = models.NewDate(1895, time.December, 27) },
			wantField: "releaseDate",
			wantTag:   "releasedate",
		},
		{
			name:      "missing release date",
			mutate:    func(f *models.Film) { f.ReleaseDate = models.Date{} },
			wantField: "releaseDate",
			wantTag:   "required",
		},
		{
			name:      "zero duration",
			mutate:    func(f *models.Film) { f.Duration = 0 },
			wantField: "duration",
			wantTag:   "gt",
		},
		{
			name:      "negative duration",
			mutate:    func(f *models.Film) { f.Duration = -1 },
			wantField: "duration",
			wantTag:   "gt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			film := validFilm()
			tt.mutate(&film)

			err := ValidateStruct(&film)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() unexpected error: %v", err)
				}
				return
			}
			assertSingleError(t, err, tt.wantField, tt.wantTag)
		})
	}
}

func TestValidateUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(u *models.User)
		wantField string
		wantTag   string
	}{
		{name: "valid", mutate: func(u *models.User) {}},
		{name: "born today", mutate: func(u *models.User) { u.Birthday = models.Today() }},
		{
			name:      "missing email",
			mutate:    func(u *models.User) { u.Email = "" },
			wantField: "email",
			wantTag:   "required",
		},
		{
			name:      "malformed email",
			mutate:    func(u *models.User) { u.Email = "mail.ru" },
			wantField: "email",
			wantTag:   "email",
		},
		{
			name:      "missing login",
			mutate:    func(u *models.User) { u.Login = "" },
			wantField: "login",
			wantTag:   "required",
		},
		{
			name:      "login with space",
			mutate:    func(u *models.User) { u.Login = "dol ore" },
			wantField: "login",
			wantTag:   "nowhitespace",
		},
		{
			name:      "login with tab",
			mutate:    func(u *models.User) { u.Login = "dol\tore" },
			wantField: "login",
			wantTag:   "nowhitespace",
		},
		{
			name:      "birthday in the future",
			mutate:    func(u *models.User) { u.Birthday = models.DateOf(time.Now().AddDate(0, 0, 2)) },
			wantField: "birthday",
			wantTag:   "pastorpresent",
		},
		{
			name:      "missing birthday",
			mutate:    func(u *models.User) { u.Birthday = models.Date{} },
			wantField: "birthday",
			wantTag:   "required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			user := validUser()
			tt.mutate(&user)

			err := ValidateStruct(&user)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() unexpected error: %v", err)
				}
				return
			}
			assertSingleError(t, err, tt.wantField, tt.wantTag)
		})
	}
}

func assertSingleError(t *testing.T, err *RequestValidationError, field, tag string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %s error on %s", tag, field)
	}
	errs := err.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), err)
	}
	if errs[0].Field() != field {
		t.Errorf("Field() = %q, want %q", errs[0].Field(), field)
	}
	if errs[0].Tag() != tag {
		t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tag)
	}
	if !strings.Contains(errs[0].Error(), field) {
		t.Errorf("message %q should name the field", errs[0].Error())
	}
}

func TestToAPIError_Violations(t *testing.T) {
	t.Parallel()

	user := models.User{Login: "has space"}
	err := ValidateStruct(&user)
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != models.ErrCodeValidation {
		t.Errorf("Code = %q, want %q", apiErr.Code, models.ErrCodeValidation)
	}

	fields := map[string]bool{}
	for _, v := range apiErr.Violations() {
		fields[v.FieldName] = true
		if v.Message == "" {
			t.Errorf("violation for %s has no message", v.FieldName)
		}
	}
	for _, want := range []string{"email", "login", "birthday"} {
		if !fields[want] {
			t.Errorf("expected violation for %s, got %v", want, fields)
		}
	}
}

func TestNewFieldError(t *testing.T) {
	t.Parallel()

	err := NewFieldError("id", "id must not be set when creating")
	v := err.Violations()
	if len(v) != 1 || v[0].FieldName != "id" {
		t.Fatalf("Violations() = %+v", v)
	}
	if err.Error() != "id must not be set when creating" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestValidate_ReturnsUntypedNil(t *testing.T) {
	t.Parallel()

	user := validUser()
	if err := Validate(&user); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	user.Email = ""
	err := Validate(&user)
	var verr *RequestValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() error %T should be *RequestValidationError", err)
	}
}
