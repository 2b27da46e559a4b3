package github

import "time"

// User is a GitHub account. Search results, follower lists and the profile
// endpoint all decode into it; list endpoints leave the profile counters zero.
type User struct {
	Login       string    `json:"login"`
	ID          int64     `json:"id"`
	AvatarURL   string    `json:"avatar_url"`
	HTMLURL     string    `json:"html_url"`
	Type        string    `json:"type,omitempty"`
	Name        *string   `json:"name,omitempty"`
	Company     *string   `json:"company,omitempty"`
	Blog        *string   `json:"blog,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	PublicRepos int       `json:"public_repos"`
	PublicGists int       `json:"public_gists"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SearchResult struct {
	TotalCount        int    `json:"total_count"`
	IncompleteResults bool   `json:"incomplete_results"`
	Items             []User `json:"items"`
}

type Repository struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	HTMLURL         string    `json:"html_url"`
	Description     *string   `json:"description"`
	Fork            bool      `json:"fork"`
	StargazersCount int       `json:"stargazers_count"`
	WatchersCount   int       `json:"watchers_count"`
	ForksCount      int       `json:"forks_count"`
	OpenIssuesCount int       `json:"open_issues_count"`
	Language        *string   `json:"language"`
	Topics          []string  `json:"topics,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	PushedAt        time.Time `json:"pushed_at"`
}

type EventActor struct {
	ID           int64  `json:"id"`
	Login        string `json:"login"`
	DisplayLogin string `json:"display_login"`
	AvatarURL    string `json:"avatar_url"`
}

type EventRepo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Commit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Author  struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"author"`
}

type IssueRef struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}

type EventPayload struct {
	Action      string    `json:"action,omitempty"`
	Ref         *string   `json:"ref,omitempty"`
	RefType     string    `json:"ref_type,omitempty"`
	Size        int       `json:"size,omitempty"`
	Commits     []Commit  `json:"commits,omitempty"`
	Issue       *IssueRef `json:"issue,omitempty"`
	PullRequest *IssueRef `json:"pull_request,omitempty"`
}

type Event struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"`
	Actor     EventActor   `json:"actor"`
	Repo      EventRepo    `json:"repo"`
	Payload   EventPayload `json:"payload"`
	Public    bool         `json:"public"`
	CreatedAt time.Time    `json:"created_at"`
}

type Org struct {
	Login       string  `json:"login"`
	ID          int64   `json:"id"`
	AvatarURL   string  `json:"avatar_url"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	HTMLURL     string  `json:"html_url"`
	ReposURL    string  `json:"repos_url"`
}

// RepoListOptions controls ordering for ListRepos. Empty fields use the
// API defaults.
type RepoListOptions struct {
	Sort      string
	Direction string
}
