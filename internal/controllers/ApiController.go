package controllers

import (
	"net/http"
	"strings"

	"ghexplorer/internal/github"
	"ghexplorer/internal/providers"
	"ghexplorer/internal/services"
)

// ApiController serves the read-only GitHub views.
type ApiController struct {
	logger   providers.Logger
	explorer services.ExplorerServiceInterface
	compare  services.CompareServiceInterface
}

func NewApiController(logger providers.Logger, explorer services.ExplorerServiceInterface, compare services.CompareServiceInterface) *ApiController {
	return &ApiController{
		logger:   logger,
		explorer: explorer,
		compare:  compare,
	}
}

func login(w http.ResponseWriter, r *http.Request) (string, bool) {
	l := strings.TrimSpace(r.PathValue("login"))
	if l == "" {
		badRequest(w, "login is required")
		return "", false
	}
	return l, true
}

func (ac *ApiController) SearchUsers(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		badRequest(w, "q is required")
		return
	}
	v, err := ac.explorer.Search(r.Context(), q, listRequest(r))
	writeList(w, v, err)
}

func (ac *ApiController) GetUser(w http.ResponseWriter, r *http.Request) {
	l, ok := login(w, r)
	if !ok {
		return
	}
	u, err := ac.explorer.User(r.Context(), l)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (ac *ApiController) GetRepos(w http.ResponseWriter, r *http.Request) {
	l, ok := login(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	opts := github.RepoListOptions{Sort: q.Get("sort"), Direction: q.Get("direction")}
	switch opts.Sort {
	case "", "created", "updated", "pushed", "full_name":
	default:
		badRequest(w, "unsupported sort "+opts.Sort)
		return
	}
	switch opts.Direction {
	case "", "asc", "desc":
	default:
		badRequest(w, "unsupported direction "+opts.Direction)
		return
	}
	v, err := ac.explorer.Repos(r.Context(), l, opts, listRequest(r))
	writeList(w, v, err)
}

func (ac *ApiController) GetFollowers(w http.ResponseWriter, r *http.Request) {
	l, ok := login(w, r)
	if !ok {
		return
	}
	v, err := ac.explorer.Followers(r.Context(), l, listRequest(r))
	writeList(w, v, err)
}

func (ac *ApiController) GetFollowing(w http.ResponseWriter, r *http.Request) {
	l, ok := login(w, r)
	if !ok {
		return
	}
	v, err := ac.explorer.Following(r.Context(), l, listRequest(r))
	writeList(w, v, err)
}

func (ac *ApiController) GetEvents(w http.ResponseWriter, r *http.Request) {
	l, ok := login(w, r)
	if !ok {
		return
	}
	v, err := ac.explorer.Events(r.Context(), l, listRequest(r))
	writeList(w, v, err)
}

func (ac *ApiController) GetOrgs(w http.ResponseWriter, r *http.Request) {
	l, ok := login(w, r)
	if !ok {
		return
	}
	orgs, err := ac.explorer.Orgs(r.Context(), l)
	if err != nil {
		writeError(w, err)
		return
	}
	if orgs == nil {
		orgs = []github.Org{}
	}
	writeJSON(w, http.StatusOK, orgs)
}

func (ac *ApiController) GetContributions(w http.ResponseWriter, r *http.Request) {
	l, ok := login(w, r)
	if !ok {
		return
	}
	c, err := ac.explorer.Contributions(r.Context(), l)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Compare takes logins as repeated u parameters or one comma separated list.
func (ac *ApiController) Compare(w http.ResponseWriter, r *http.Request) {
	var logins []string
	for _, v := range r.URL.Query()["u"] {
		logins = append(logins, strings.Split(v, ",")...)
	}
	res := ac.compare.Compare(r.Context(), logins)
	if len(res.Users) == 0 && len(res.Errors) == 0 {
		badRequest(w, "at least one user is required")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
