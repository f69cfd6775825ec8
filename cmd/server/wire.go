// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"gamehub_backend/internal/app"
	"gamehub_backend/internal/config"
	"gamehub_backend/internal/firebase"
	"gamehub_backend/internal/jobs"
	"gamehub_backend/internal/platform/database"
	platformElasticsearch "gamehub_backend/internal/platform/elasticsearch"
	"gamehub_backend/internal/platform/logger"
	"gamehub_backend/internal/platform/metrics"
	platformredis "gamehub_backend/internal/platform/redis"
	"gamehub_backend/internal/reconcile"
	"gamehub_backend/internal/sessionhint"
	"gamehub_backend/internal/signup"

	"github.com/google/wire"
)

var platformSet = wire.NewSet(
	logger.New,
	metrics.NewRegistry,
	metrics.New,
	database.NewGORM,
	firebase.NewFirebaseService,
)

var reconcileSet = wire.NewSet(
	reconcile.NewGORMRepository,
	reconcile.NewService,
	wire.Bind(new(reconcile.DisplayNameSetter), new(*firebase.FirebaseService)),
	wire.Bind(new(reconcile.DocumentCreator), new(*firebase.FirebaseService)),
	wire.Bind(new(reconcile.Observer), new(*metrics.Metrics)),
	jobs.NewReconciliationJob,
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		platformSet,
		reconcileSet,
		platformredis.New,
		platformElasticsearch.NewClient,
		platformElasticsearch.NewEventIndexer,

		sessionhint.NewStore,
		sessionhint.NewHandler,
		provideSessionHintReader,

		signup.NewValidator,
		signup.NewDuplicateChecker,
		signup.NewRandomProfilePicker,
		signup.NewOrchestrator,
		signup.NewHandler,
		wire.Bind(new(signup.IdentityProvider), new(*firebase.FirebaseService)),
		wire.Bind(new(signup.Datastore), new(*firebase.FirebaseService)),
		wire.Bind(new(signup.Reconciler), new(*reconcile.Service)),
		wire.Bind(new(signup.EventSink), new(*platformElasticsearch.EventIndexer)),
		wire.Bind(new(signup.ProfilePicker), new(*signup.RandomProfilePicker)),
		wire.Bind(new(signup.Recorder), new(*metrics.Metrics)),

		app.NewServer,
	)
	return nil, nil, nil
}

// initializeReconciliationJob wires the one-shot reconcile subcommand.
func initializeReconciliationJob(cfg *config.Config) (*jobs.ReconciliationJob, func(), error) {
	wire.Build(platformSet, reconcileSet)
	return nil, nil, nil
}
