package services

import (
	"context"
	"strings"
	"time"

	"ghexplorer/internal/github"
	"ghexplorer/internal/listcache"
	"ghexplorer/internal/models"
	"ghexplorer/internal/providers"
	"ghexplorer/internal/structures"
)

const (
	// SocialPageSize is the page size for followers, following and events.
	SocialPageSize = 30
	// maxEventPages is how deep the events API lets a client page.
	maxEventPages = 10
)

// ListRequest selects what a list read does besides returning the cached view.
type ListRequest struct {
	More    bool
	Refresh bool
	Retry   bool
}

type ExplorerServiceInterface interface {
	User(ctx context.Context, login string) (*github.User, error)
	Orgs(ctx context.Context, login string) ([]github.Org, error)
	Search(ctx context.Context, query string, req ListRequest) (listcache.View[github.User], error)
	Repos(ctx context.Context, login string, opts github.RepoListOptions, req ListRequest) (listcache.View[github.Repository], error)
	Followers(ctx context.Context, login string, req ListRequest) (listcache.View[github.User], error)
	Following(ctx context.Context, login string, req ListRequest) (listcache.View[github.User], error)
	Events(ctx context.Context, login string, req ListRequest) (listcache.View[github.Event], error)
	Contributions(ctx context.Context, login string) (models.Contributions, error)
	Sweep() int
	Reset()
}

// ExplorerService serves every paginated GitHub list through its own list
// cache. Cache keys are "<resource>:<subject>[:<params>]".
type ExplorerService struct {
	api       github.API
	search    *listcache.Cache[github.User]
	repos     *listcache.Cache[github.Repository]
	followers *listcache.Cache[github.User]
	following *listcache.Cache[github.User]
	events    *listcache.Cache[github.Event]
	clock     func() time.Time
}

func NewExplorerService(conf *structures.Config, api github.API, logger providers.Logger, metrics providers.MetricsProviderInterface) *ExplorerService {
	opts := func(resource string, pageSize int) listcache.Options {
		return listcache.Options{
			Resource:  resource,
			PageSize:  pageSize,
			StaleTime: conf.Lists.StaleTime,
			GCTime:    conf.Lists.GCTime,
		}
	}
	pageSize := conf.Lists.PageSize
	if pageSize <= 0 {
		pageSize = listcache.DefaultPageSize
	}

	// List pages bypass the response cache; the list cache owns their freshness.
	es := &ExplorerService{api: api, clock: time.Now}
	es.search = listcache.New(func(ctx context.Context, key string, page int) ([]github.User, error) {
		res, err := api.SearchUsers(github.WithoutResponseCache(ctx), strings.TrimPrefix(key, "search:"), page, pageSize)
		if err != nil {
			return nil, err
		}
		return res.Items, nil
	}, opts("search", pageSize), logger, metrics)

	es.repos = listcache.New(func(ctx context.Context, key string, page int) ([]github.Repository, error) {
		login, sort, direction := splitReposKey(key)
		return api.ListRepos(github.WithoutResponseCache(ctx), login, github.RepoListOptions{Sort: sort, Direction: direction}, page, pageSize)
	}, opts("repos", pageSize), logger, metrics)

	es.followers = listcache.New(func(ctx context.Context, key string, page int) ([]github.User, error) {
		return api.ListFollowers(github.WithoutResponseCache(ctx), strings.TrimPrefix(key, "followers:"), page, SocialPageSize)
	}, opts("followers", SocialPageSize), logger, metrics)

	es.following = listcache.New(func(ctx context.Context, key string, page int) ([]github.User, error) {
		return api.ListFollowing(github.WithoutResponseCache(ctx), strings.TrimPrefix(key, "following:"), page, SocialPageSize)
	}, opts("following", SocialPageSize), logger, metrics)

	es.events = listcache.New(func(ctx context.Context, key string, page int) ([]github.Event, error) {
		return api.ListEvents(github.WithoutResponseCache(ctx), strings.TrimPrefix(key, "events:"), page, SocialPageSize)
	}, opts("events", SocialPageSize), logger, metrics)

	return es
}

func ReposKey(login string, opts github.RepoListOptions) string {
	return "repos:" + login + ":" + opts.Sort + ":" + opts.Direction
}

func splitReposKey(key string) (login, sort, direction string) {
	parts := strings.SplitN(strings.TrimPrefix(key, "repos:"), ":", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return parts[0], parts[1], parts[2]
}

// read subscribes to key and applies req. A list with nothing cached yet is
// waited for; a cached one is returned as is while any refresh runs.
func read[T any](ctx context.Context, c *listcache.Cache[T], key string, req ListRequest) (listcache.View[T], error) {
	sub := c.Subscribe(ctx, key)
	if sub.View().IsLoading {
		if err := sub.Wait(ctx); err != nil && ctx.Err() != nil {
			return listcache.View[T]{}, err
		}
	}

	var err error
	switch {
	case req.Retry:
		err = sub.Retry(ctx)
	case req.Refresh:
		err = sub.Refetch(ctx)
	case req.More:
		err = sub.LoadMore(ctx)
	}
	if err != nil && ctx.Err() != nil {
		return listcache.View[T]{}, err
	}
	return sub.View(), nil
}

func (es *ExplorerService) User(ctx context.Context, login string) (*github.User, error) {
	return es.api.GetUser(ctx, login)
}

func (es *ExplorerService) Orgs(ctx context.Context, login string) ([]github.Org, error) {
	return es.api.ListOrgs(ctx, login)
}

func (es *ExplorerService) Search(ctx context.Context, query string, req ListRequest) (listcache.View[github.User], error) {
	return read(ctx, es.search, "search:"+strings.TrimSpace(query), req)
}

func (es *ExplorerService) Repos(ctx context.Context, login string, opts github.RepoListOptions, req ListRequest) (listcache.View[github.Repository], error) {
	return read(ctx, es.repos, ReposKey(login, opts), req)
}

func (es *ExplorerService) Followers(ctx context.Context, login string, req ListRequest) (listcache.View[github.User], error) {
	return read(ctx, es.followers, "followers:"+login, req)
}

func (es *ExplorerService) Following(ctx context.Context, login string, req ListRequest) (listcache.View[github.User], error) {
	return read(ctx, es.following, "following:"+login, req)
}

func (es *ExplorerService) Events(ctx context.Context, login string, req ListRequest) (listcache.View[github.Event], error) {
	return read(ctx, es.events, "events:"+login, req)
}

// Contributions pages through the cached events of login and aggregates them.
func (es *ExplorerService) Contributions(ctx context.Context, login string) (models.Contributions, error) {
	sub := es.events.Subscribe(ctx, "events:"+login)
	if err := sub.Wait(ctx); err != nil && ctx.Err() != nil {
		return models.Contributions{}, err
	}
	for pages := 1; pages < maxEventPages; pages++ {
		v := sub.View()
		if v.Err != nil || !v.HasMore {
			break
		}
		if err := sub.LoadMore(ctx); err != nil {
			break
		}
	}

	v := sub.View()
	if v.Err != nil && len(v.Items) == 0 {
		return models.Contributions{}, v.Err
	}
	return BuildContributions(v.Items, es.clock()), nil
}

// Sweep drops list entries idle past the GC window.
func (es *ExplorerService) Sweep() int {
	return es.search.Sweep() + es.repos.Sweep() + es.followers.Sweep() + es.following.Sweep() + es.events.Sweep()
}

func (es *ExplorerService) Reset() {
	es.search.Reset()
	es.repos.Reset()
	es.followers.Reset()
	es.following.Reset()
	es.events.Reset()
}
