package model

import (
	"sort"

	"github.com/google/uuid"
)

const GenreNameMaxLen = 60

type Genre struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name"`
}

// BookGenre links one book to one genre.
type BookGenre struct {
	ID      uuid.UUID `db:"id"`
	BookID  uuid.UUID `db:"book_id"`
	GenreID uuid.UUID `db:"genre_id"`
}

type GenreRequest struct {
	Name string `json:"name" validate:"notblank,max=60"`
}

// UpdateGenreRequest is GenreRequest without the required rule: blank keeps the stored name.
type UpdateGenreRequest struct {
	Name *string `json:"name" validate:"omitempty,max=60"`
}

type GenreResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (g Genre) Response() GenreResponse {
	return GenreResponse{ID: g.ID, Name: g.Name}
}

// GenreSet deduplicates genres by id and orders them by name, then id.
func GenreSet(genres []Genre) []GenreResponse {
	seen := make(map[uuid.UUID]struct{}, len(genres))
	out := make([]GenreResponse, 0, len(genres))
	for _, g := range genres {
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		out = append(out, g.Response())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}
