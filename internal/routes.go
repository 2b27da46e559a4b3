package internal

import (
	"net/http"

	"ghexplorer/internal/controllers"
	"ghexplorer/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController, libraryController *controllers.LibraryController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/users/search", http.HandlerFunc(apiController.SearchUsers))
	routers.Get("/users/{login}", http.HandlerFunc(apiController.GetUser))
	routers.Get("/users/{login}/repos", http.HandlerFunc(apiController.GetRepos))
	routers.Get("/users/{login}/followers", http.HandlerFunc(apiController.GetFollowers))
	routers.Get("/users/{login}/following", http.HandlerFunc(apiController.GetFollowing))
	routers.Get("/users/{login}/events", http.HandlerFunc(apiController.GetEvents))
	routers.Get("/users/{login}/orgs", http.HandlerFunc(apiController.GetOrgs))
	routers.Get("/users/{login}/contributions", http.HandlerFunc(apiController.GetContributions))
	routers.Get("/compare", http.HandlerFunc(apiController.Compare))

	routers.Get("/watchlist", http.HandlerFunc(libraryController.ListWatchlist))
	routers.Post("/watchlist", http.HandlerFunc(libraryController.AddToWatchlist))
	routers.Delete("/watchlist", http.HandlerFunc(libraryController.ClearWatchlist))
	routers.Get("/watchlist/{id}", http.HandlerFunc(libraryController.GetWatched))
	routers.Post("/watchlist/{id}/refresh", http.HandlerFunc(libraryController.RefreshWatched))
	routers.Delete("/watchlist/{id}", http.HandlerFunc(libraryController.RemoveFromWatchlist))

	routers.Get("/history", http.HandlerFunc(libraryController.ListHistory))
	routers.Post("/history", http.HandlerFunc(libraryController.AddToHistory))
	routers.Delete("/history", http.HandlerFunc(libraryController.DeleteHistory))

	routers.Post("/storage/reset", http.HandlerFunc(libraryController.ResetStorage))
	return routers
}
