//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/itinerary-planner/internal/bootstrap"
	"github.com/yanqian/itinerary-planner/internal/domain/auth"
	"github.com/yanqian/itinerary-planner/internal/domain/itinerary"
	"github.com/yanqian/itinerary-planner/internal/domain/planner"
	"github.com/yanqian/itinerary-planner/internal/infra/config"
	httpiface "github.com/yanqian/itinerary-planner/internal/interface/http"
	"github.com/yanqian/itinerary-planner/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAuthConfig,
		provideItineraryConfig,
		providePlannerConfig,
		provideItineraryRepository,
		provideAuthRepository,
		providePopularityStore,
		provideShareStorage,
		providePlannerBackend,
		itinerary.NewService,
		auth.NewService,
		planner.NewController,
		planner.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
