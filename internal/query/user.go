package query

import (
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"
)

// UserSearch filters the admin user listing.
type UserSearch struct {
	Role        string
	Name        string
	ExactMatch  bool
	JoinedAfter *time.Time
	MinDecks    *int
	MinLikes    *int
}

func ParseUserSearch(values url.Values) UserSearch {
	role := values.Get("role")
	if role == "" {
		role = "user"
	}
	return UserSearch{
		Role:        role,
		Name:        values.Get("name"),
		ExactMatch:  values.Get("exactMatch") == "true",
		JoinedAfter: parseTime(values.Get("joinedAfter")),
		MinDecks:    parseInt(values.Get("decksCount")),
		MinLikes:    parseInt(values.Get("likesCount")),
	}
}

// Scope applies the role restriction and the SQL-expressible filters.
func (s UserSearch) Scope(db *gorm.DB) *gorm.DB {
	db = db.Where("role = ?", s.Role)

	if s.Name != "" {
		if s.ExactMatch {
			db = db.Where("name = ?", s.Name)
		} else {
			db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s.Name)+"%")
		}
	}
	if s.JoinedAfter != nil {
		db = db.Where("created_at >= ?", *s.JoinedAfter)
	}

	return db
}

// UserStats are the per-user derived counts: owned decks and the aggregate
// favorite count across them.
type UserStats struct {
	Decks int
	Likes int
}

// Stages returns the derived-count restrictions, deck count before like count.
func (s UserSearch) Stages() []func(UserStats) bool {
	var stages []func(UserStats) bool
	if s.MinDecks != nil {
		min := *s.MinDecks
		stages = append(stages, func(st UserStats) bool { return st.Decks >= min })
	}
	if s.MinLikes != nil {
		min := *s.MinLikes
		stages = append(stages, func(st UserStats) bool { return st.Likes >= min })
	}
	return stages
}

// Match reports whether a user's derived stats pass every stage.
func (s UserSearch) Match(stats UserStats) bool {
	for _, stage := range s.Stages() {
		if !stage(stats) {
			return false
		}
	}
	return true
}
