package controllers

import (
	"net/http"
	"strconv"
	"time"

	apperrors "ghexplorer/internal/errors"
	"ghexplorer/internal/listcache"
	"ghexplorer/internal/services"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type errorBody struct {
	Code     apperrors.Code    `json:"code"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type listResponse[T any] struct {
	Items        []T        `json:"items"`
	HasMore      bool       `json:"hasMore"`
	IsRefreshing bool       `json:"isRefreshing"`
	FetchedAt    *time.Time `json:"fetchedAt,omitempty"`
	Error        *errorBody `json:"error,omitempty"`
}

func newErrorBody(err error) *errorBody {
	code := apperrors.GetCode(err)
	return &errorBody{Code: code, Message: err.Error(), Metadata: apperrors.GetMetadata(err)}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, err error) {
	body := newErrorBody(err)
	writeJSON(w, body.Code.HTTPStatus(), body)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeError(w, apperrors.New(apperrors.CodeInvalidArgument, msg))
}

// writeList answers with the cached view. A failed list with nothing to show
// is an error; otherwise the error rides along with the stale items.
func writeList[T any](w http.ResponseWriter, v listcache.View[T], err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	if v.Err != nil && len(v.Items) == 0 {
		writeError(w, v.Err)
		return
	}
	resp := listResponse[T]{
		Items:        v.Items,
		HasMore:      v.HasMore,
		IsRefreshing: v.IsRefreshing,
	}
	if resp.Items == nil {
		resp.Items = []T{}
	}
	if !v.FetchedAt.IsZero() {
		at := v.FetchedAt
		resp.FetchedAt = &at
	}
	if v.Err != nil {
		resp.Error = newErrorBody(v.Err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func flag(r *http.Request, name string) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return ok
}

func listRequest(r *http.Request) services.ListRequest {
	return services.ListRequest{
		More:    flag(r, "more"),
		Refresh: flag(r, "refresh"),
		Retry:   flag(r, "retry"),
	}
}
