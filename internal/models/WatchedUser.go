package models

import "ghexplorer/internal/github"

// WatchedUser is a profile snapshot kept in the watchlist. The JSON shape
// matches the GitHub user payload so older watchlists decode unchanged.
type WatchedUser struct {
	ID          int64   `json:"id"`
	Login       string  `json:"login"`
	Name        *string `json:"name"`
	AvatarURL   string  `json:"avatar_url"`
	HTMLURL     string  `json:"html_url"`
	Followers   int     `json:"followers"`
	Following   int     `json:"following"`
	PublicRepos int     `json:"public_repos"`
}

func NewWatchedUser(u *github.User) WatchedUser {
	return WatchedUser{
		ID:          u.ID,
		Login:       u.Login,
		Name:        u.Name,
		AvatarURL:   u.AvatarURL,
		HTMLURL:     u.HTMLURL,
		Followers:   u.Followers,
		Following:   u.Following,
		PublicRepos: u.PublicRepos,
	}
}
