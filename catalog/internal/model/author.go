package model

import (
	"github.com/google/uuid"
)

const (
	AuthorNameMaxLen      = 60
	AuthorBiographyMaxLen = 4096
)

type Author struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Biography *string   `db:"biography"`
}

type CreateAuthorRequest struct {
	Name      string  `json:"name" validate:"notblank,max=60"`
	Biography *string `json:"biography" validate:"omitempty,max=4096"`
}

// UpdateAuthorRequest fields left nil or blank keep the stored value.
type UpdateAuthorRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=60"`
	Biography *string `json:"biography" validate:"omitempty,max=4096"`
}

type AuthorCreated struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Biography *string   `json:"biography"`
}

type AuthorDetails struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Biography *string   `json:"biography"`
}

type AuthorSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (a Author) Details() AuthorDetails {
	return AuthorDetails{ID: a.ID, Name: a.Name, Biography: a.Biography}
}

func (a Author) Summary() AuthorSummary {
	return AuthorSummary{ID: a.ID, Name: a.Name}
}
