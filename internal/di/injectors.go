//go:build wireinject
// +build wireinject

package di

import (
	"ghexplorer/internal"
	"ghexplorer/internal/controllers"
	"ghexplorer/internal/github"
	"ghexplorer/internal/providers"
	"ghexplorer/internal/scheduler"
	"ghexplorer/internal/services"
	"ghexplorer/internal/storage"
	"ghexplorer/internal/structures"

	wire "github.com/google/wire"
)

var ambientSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewManagedLogProvider,
	providers.NewMetricsProvider,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		ambientSet,
		providers.NewInstrumentedCacheProvider,
		storage.Open,

		github.NewClient,
		wire.Bind(new(github.API), new(*github.Client)),

		services.NewExplorerService,
		wire.Bind(new(services.ExplorerServiceInterface), new(*services.ExplorerService)),
		wire.Bind(new(scheduler.Sweeper), new(*services.ExplorerService)),
		services.NewCompareService,
		wire.Bind(new(services.CompareServiceInterface), new(*services.CompareService)),
		services.NewWatchlistService,
		wire.Bind(new(services.WatchlistServiceInterface), new(*services.WatchlistService)),
		services.NewHistoryService,
		wire.Bind(new(services.HistoryServiceInterface), new(*services.HistoryService)),

		controllers.NewApiController,
		controllers.NewLibraryController,
		controllers.NewHealthController,
		internal.InitRoutes,
		scheduler.NewScheduler,
		internal.NewApp,
	)

	return nil, nil, nil
}

func InitStore(cfg *structures.CliFlags) (*storage.Store, func(), error) {

	wire.Build(
		ambientSet,
		storage.Open,
	)

	return nil, nil, nil
}
