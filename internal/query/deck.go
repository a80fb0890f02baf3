// Package query holds the filter specifications for the search endpoints and
// their translation into restriction stages. Business rules live here (which
// filters exist, their fixed order); the datastore sees only WHERE clauses
// and the loaded rows.
//
// Every restriction is conjunctive, so filters that can be expressed in SQL
// are pushed into the base query while derived-count thresholds run as
// ordered stages over the loaded rows. A missing parameter contributes no
// stage at all, never a filter-for-null.
package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/himanshinagori/buddyboard/internal/database/models"
	"gorm.io/gorm"
)

// DeckSearch filters the public deck listing. Zero/nil fields are skipped.
type DeckSearch struct {
	Title        string
	ExactMatch   bool
	MinCards     *int
	CreatedAfter *time.Time
	MinFavorites *int
}

// ParseDeckSearch reads the search parameters from the request query string.
// exactMatch is true only for the literal string "true"; numeric values that
// fail to parse drop their stage.
func ParseDeckSearch(values url.Values) DeckSearch {
	return DeckSearch{
		Title:        values.Get("title"),
		ExactMatch:   values.Get("exactMatch") == "true",
		MinCards:     parseInt(values.Get("cardsCount")),
		CreatedAfter: parseTime(values.Get("postedAfter")),
		MinFavorites: parseInt(values.Get("favoritesCount")),
	}
}

// Scope applies the base restriction (public and not blocked) and the
// SQL-expressible filters.
func (s DeckSearch) Scope(db *gorm.DB) *gorm.DB {
	db = db.Where("visibility = ? AND is_blocked = ?", models.VisibilityPublic, false)

	if s.Title != "" {
		if s.ExactMatch {
			db = db.Where("title = ?", s.Title)
		} else {
			db = db.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(s.Title)+"%")
		}
	}
	if s.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *s.CreatedAfter)
	}

	return db
}

// DeckCounts are the derived values the count stages restrict on.
type DeckCounts struct {
	Cards     int
	Favorites int
}

// Stages returns the derived-count restrictions in their fixed order:
// card count threshold first, favorite count threshold last.
func (s DeckSearch) Stages() []func(DeckCounts) bool {
	var stages []func(DeckCounts) bool
	if s.MinCards != nil {
		min := *s.MinCards
		stages = append(stages, func(c DeckCounts) bool { return c.Cards >= min })
	}
	if s.MinFavorites != nil {
		min := *s.MinFavorites
		stages = append(stages, func(c DeckCounts) bool { return c.Favorites >= min })
	}
	return stages
}

// Match reports whether a deck's derived counts pass every stage.
func (s DeckSearch) Match(counts DeckCounts) bool {
	for _, stage := range s.Stages() {
		if !stage(counts) {
			return false
		}
	}
	return true
}

func parseInt(raw string) *int {
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func parseTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
