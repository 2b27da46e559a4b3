package services

import (
	"context"
	"fmt"
	"sync"

	apperrors "ghexplorer/internal/errors"
	"ghexplorer/internal/github"
	"ghexplorer/internal/storage"
	"ghexplorer/internal/testutil"
)

type fakeAPI struct {
	mu       sync.Mutex
	users    map[string]*github.User
	repos    []github.Repository
	events   []github.Event
	calls    []string
	repoOpts []github.RepoListOptions
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{users: make(map[string]*github.User)}
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func page[T any](items []T, page, perPage int) []T {
	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	end := min(start+perPage, len(items))
	return append([]T(nil), items[start:end]...)
}

func (f *fakeAPI) SearchUsers(_ context.Context, query string, p, perPage int) (*github.SearchResult, error) {
	f.record(fmt.Sprintf("search:%s:%d", query, p))
	var items []github.User
	for _, u := range f.users {
		items = append(items, *u)
	}
	return &github.SearchResult{TotalCount: len(items), Items: page(items, p, perPage)}, nil
}

func (f *fakeAPI) GetUser(_ context.Context, login string) (*github.User, error) {
	f.record("user:" + login)
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[login]
	if !ok {
		return nil, apperrors.New(apperrors.CodeFetchNotFound, "Not Found")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeAPI) ListRepos(_ context.Context, login string, opts github.RepoListOptions, p, perPage int) ([]github.Repository, error) {
	f.record(fmt.Sprintf("repos:%s:%d", login, p))
	f.mu.Lock()
	defer f.mu.Unlock()
	f.repoOpts = append(f.repoOpts, opts)
	return page(f.repos, p, perPage), nil
}

func (f *fakeAPI) ListFollowers(_ context.Context, login string, p, _ int) ([]github.User, error) {
	f.record(fmt.Sprintf("followers:%s:%d", login, p))
	return []github.User{{Login: "fan", ID: 1}}, nil
}

func (f *fakeAPI) ListFollowing(_ context.Context, login string, p, _ int) ([]github.User, error) {
	f.record(fmt.Sprintf("following:%s:%d", login, p))
	return []github.User{}, nil
}

func (f *fakeAPI) ListEvents(_ context.Context, login string, p, perPage int) ([]github.Event, error) {
	f.record(fmt.Sprintf("events:%s:%d", login, p))
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f.events, p, perPage), nil
}

func (f *fakeAPI) ListOrgs(_ context.Context, login string) ([]github.Org, error) {
	f.record("orgs:" + login)
	return []github.Org{{Login: "github"}}, nil
}

var _ github.API = (*fakeAPI)(nil)

func newMemoryStore() *storage.Store {
	return storage.New(storage.NewMemorySubstrate(0), "test", &testutil.MockLogger{}, testutil.NewMockMetrics())
}
