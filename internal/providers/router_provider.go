package providers

import (
	"net/http"

	"ghexplorer/internal/structures"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	Delete(url string, handler http.Handler)
	GetRoutes() []structures.Route
}

// RouterProvider collects method-qualified ServeMux patterns ("GET /users/{login}").
type RouterProvider struct {
	routes []structures.Route
}

func (rp *RouterProvider) add(method, url string, handler http.Handler) {
	rp.routes = append(rp.routes, structures.Route{
		Url:     method + " " + url,
		Handler: handler,
	})
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.add(http.MethodPost, url, handler)
}

func (rp *RouterProvider) Delete(url string, handler http.Handler) {
	rp.add(http.MethodDelete, url, handler)
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{}
}

// NewServeMux registers all collected routes on a fresh mux.
func NewServeMux(router RouterProviderInterface) *http.ServeMux {
	mux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		mux.Handle(route.Url, route.Handler)
	}
	return mux
}
