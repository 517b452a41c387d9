package main

import (
	"context"
	"errors"

	"filesmanager/internal/blob"
	"filesmanager/internal/config"
	"filesmanager/internal/database"
	"filesmanager/internal/metrics"
	"filesmanager/internal/middleware"
	"filesmanager/internal/modules/app"
	"filesmanager/internal/modules/auth"
	"filesmanager/internal/modules/files"
	"filesmanager/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type routerDeps struct {
	cfg      *config.Config
	log      *zap.Logger
	stores   *database.Stores
	sessions session.Store
	blobs    *blob.Store
	registry *prometheus.Registry
}

func newRouter(d routerDeps) *gin.Engine {
	m := metrics.New(d.registry)

	authService := auth.NewService(d.stores.Users, d.sessions, d.log.Named("auth"), m)
	authHandler := auth.NewHandler(authService, d.log.Named("auth"))

	filesService := files.NewService(d.stores.Files, d.blobs, d.log.Named("files"), m)
	filesHandler := files.NewHandler(filesService, d.log.Named("files"))

	appService := app.NewService(d.sessions, d.stores, d.stores.Users, d.stores.Files, d.log.Named("app"))
	appHandler := app.NewHandler(appService)

	sessions := middleware.AuthenticatorFunc(func(ctx context.Context, token string) (string, error) {
		userID, err := authService.Authenticate(ctx, token)
		if errors.Is(err, auth.ErrUnauthorized) {
			return "", middleware.ErrUnauthenticated
		}
		return userID, err
	})

	r := gin.New()
	r.Use(middleware.ErrorLogger(d.log))
	r.Use(middleware.RequestLogger(d.log.Named("http")))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS(d.cfg.CORSOrigins()))
	r.Use(middleware.BodyLimit(int64(d.cfg.BodyLimitMB) << 20))

	r.GET("/metrics",
		middleware.InternalTokenAuth(d.cfg.MetricsToken, d.cfg.MetricsIPs(), d.log),
		gin.WrapH(metrics.Handler(d.registry)),
	)

	appHandler.RegisterRoutes(r)
	authHandler.RegisterPublicRoutes(r)

	protected := r.Group("/")
	protected.Use(middleware.SessionAuth(sessions, d.log))
	authHandler.RegisterProtectedRoutes(protected)

	optional := r.Group("/")
	optional.Use(middleware.OptionalSessionAuth(sessions, d.log))

	filesHandler.RegisterRoutes(protected, optional)

	return r
}
