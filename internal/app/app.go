package app

import (
	"context"
	"docproxy/internal/cache/redis"
	"docproxy/internal/config"
	"docproxy/internal/dbs/postgres"
	permissiongateway "docproxy/internal/gateways/permission"
	remotegateway "docproxy/internal/gateways/remote"
	busrepo "docproxy/internal/repositories/bus"
	recordrepo "docproxy/internal/repositories/db/record"
	filerepo "docproxy/internal/repositories/storage/file"
	lifecycleservice "docproxy/internal/services/lifecycle"
	jwtsigner "docproxy/internal/signer/jwt"
	"fmt"
	"log/slog"
)

const busChannelPrefix = "docproxy:"

type App struct {
	LifecycleService *lifecycleservice.LifecycleService
}

func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := postgres.New(ctx, postgres.Config{
		Addr:     cfg.DB.Addr,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DB:       cfg.DB.DB})
	if err != nil {
		log.Error("failed connect to db", "err", err)
		return nil, fmt.Errorf("failed connect to db: %w", err)
	}

	cache, err := redis.New(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Error("failed connect to redis", "err", err)
		return nil, fmt.Errorf("failed connect to redis: %w", err)
	}

	bus := busrepo.New(cache, busChannelPrefix)

	records := recordrepo.NewRepository(db)

	files := filerepo.NewRepository(cfg.FileStorage.Path)

	remote := remotegateway.New(remotegateway.Config{
		BaseURL: cfg.RemoteStorage.BaseURL,
		Token:   cfg.RemoteStorage.Token,
		Timeout: cfg.RemoteStorage.Timeout,
	})

	perms := permissiongateway.New(permissiongateway.Config{
		BaseURL: cfg.Permissions.BaseURL,
		Timeout: cfg.Permissions.Timeout,
	})

	var signer lifecycleservice.TokenSigner

	if cfg.Editor.SigningEnabled {
		signer, err = jwtsigner.New(jwtsigner.Config{
			Secret:    cfg.Editor.SigningSecret,
			Algorithm: cfg.Editor.SigningAlgorithm,
			ExpiresIn: cfg.Editor.SigningTokenExpires,
		})
		if err != nil {
			log.Error("failed to init token signer", "err", err)
			return nil, fmt.Errorf("failed to init token signer: %w", err)
		}
	}

	lifecycle := lifecycleservice.New(log, lifecycleservice.Config{
		PublicBaseURL:      cfg.Editor.PublicBaseURL,
		RotateOnRedownload: cfg.Editor.RotateOnRedownload,
		SigningEnabled:     cfg.Editor.SigningEnabled,
	}, records, files, remote, perms, bus, signer)

	return &App{
		LifecycleService: lifecycle,
	}, nil
}
