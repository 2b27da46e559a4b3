package services

import (
	"context"
	"strings"

	apperrors "ghexplorer/internal/errors"
	"ghexplorer/internal/github"
	"ghexplorer/internal/providers"

	"golang.org/x/sync/errgroup"
)

const compareConcurrency = 4

type CompareError struct {
	Login   string         `json:"login"`
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

type CompareResult struct {
	Users  []github.User  `json:"users"`
	Errors []CompareError `json:"errors"`
}

type CompareServiceInterface interface {
	Compare(ctx context.Context, logins []string) CompareResult
}

type CompareService struct {
	api    github.API
	logger providers.Logger
}

func NewCompareService(api github.API, logger providers.Logger) *CompareService {
	return &CompareService{api: api, logger: logger}
}

// Compare loads every non-blank login concurrently. Users come back in input
// order; failures are reported per login and never abort the others.
func (cs *CompareService) Compare(ctx context.Context, logins []string) CompareResult {
	valid := make([]string, 0, len(logins))
	for _, l := range logins {
		if l = strings.TrimSpace(l); l != "" {
			valid = append(valid, l)
		}
	}

	users := make([]*github.User, len(valid))
	errs := make([]error, len(valid))

	var g errgroup.Group
	g.SetLimit(compareConcurrency)
	for i, login := range valid {
		g.Go(func() error {
			users[i], errs[i] = cs.api.GetUser(ctx, login)
			return nil
		})
	}
	_ = g.Wait()

	res := CompareResult{Users: []github.User{}, Errors: []CompareError{}}
	for i, login := range valid {
		if errs[i] != nil {
			cs.logger.Warnf(providers.TypeGitHub, "Compare: failed to fetch user %s: %s", login, errs[i])
			res.Errors = append(res.Errors, CompareError{
				Login:   login,
				Code:    apperrors.GetCode(errs[i]),
				Message: errs[i].Error(),
			})
			continue
		}
		res.Users = append(res.Users, *users[i])
	}
	return res
}
