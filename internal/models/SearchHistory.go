package models

import (
	"strings"
	"time"

	"ghexplorer/internal/github"
)

// maxTimestamp is the largest millisecond timestamp a history entry may carry.
const maxTimestamp = 8_640_000_000_000_000

type UserSummary struct {
	Name        *string `json:"name,omitempty"`
	AvatarURL   string  `json:"avatar_url,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	Followers   int     `json:"followers"`
	Following   int     `json:"following"`
	PublicRepos int     `json:"public_repos"`
}

// SearchHistoryEntry records the last time a query was searched. Timestamp is
// in Unix milliseconds.
type SearchHistoryEntry struct {
	Query     string       `json:"query"`
	Timestamp int64        `json:"timestamp"`
	AvatarURL string       `json:"avatar_url,omitempty"`
	HTMLURL   string       `json:"html_url,omitempty"`
	UserData  *UserSummary `json:"userData,omitempty"`
}

func NewSearchHistoryEntry(query string, u *github.User, at time.Time) SearchHistoryEntry {
	e := SearchHistoryEntry{
		Query:     query,
		Timestamp: at.UnixMilli(),
		AvatarURL: "https://avatars.githubusercontent.com/" + query,
		HTMLURL:   "https://github.com/" + query,
	}
	if u == nil {
		return e
	}
	if u.AvatarURL != "" {
		e.AvatarURL = u.AvatarURL
	}
	if u.HTMLURL != "" {
		e.HTMLURL = u.HTMLURL
	}
	e.UserData = &UserSummary{
		Name:        u.Name,
		AvatarURL:   u.AvatarURL,
		Bio:         u.Bio,
		Followers:   u.Followers,
		Following:   u.Following,
		PublicRepos: u.PublicRepos,
	}
	return e
}

func (e SearchHistoryEntry) Valid() bool {
	return strings.TrimSpace(e.Query) != "" && e.Timestamp > 0 && e.Timestamp < maxTimestamp
}
