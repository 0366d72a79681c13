package xcontext

import (
	"context"
	"net/http"

	"github.com/taskhive/groupsync/config"
	"github.com/taskhive/groupsync/internal/entity"
	"github.com/taskhive/groupsync/pkg/authenticator"
	"github.com/taskhive/groupsync/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey     struct{}
	loggerKey      struct{}
	dbKey          struct{}
	httpClientKey  struct{}
	tokenSourceKey struct{}
	requestUserKey struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	if cfg, ok := ctx.Value(configsKey{}).(config.Configs); ok {
		return cfg
	}

	return config.Configs{}
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	if l, ok := ctx.Value(loggerKey{}).(logger.Logger); ok {
		return l
	}

	return logger.NewLogger(logger.INFO)
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

func DB(ctx context.Context) *gorm.DB {
	if db, ok := ctx.Value(dbKey{}).(*gorm.DB); ok {
		return db
	}

	return nil
}

func WithHTTPClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, httpClientKey{}, client)
}

func HTTPClient(ctx context.Context) *http.Client {
	if client, ok := ctx.Value(httpClientKey{}).(*http.Client); ok {
		return client
	}

	return http.DefaultClient
}

func WithTokenSource(ctx context.Context, source authenticator.TokenSource) context.Context {
	return context.WithValue(ctx, tokenSourceKey{}, source)
}

func TokenSource(ctx context.Context) authenticator.TokenSource {
	if source, ok := ctx.Value(tokenSourceKey{}).(authenticator.TokenSource); ok {
		return source
	}

	return nil
}

func WithRequestUser(ctx context.Context, user entity.User) context.Context {
	return context.WithValue(ctx, requestUserKey{}, user)
}

func RequestUser(ctx context.Context) entity.User {
	if user, ok := ctx.Value(requestUserKey{}).(entity.User); ok {
		return user
	}

	return entity.User{}
}

func RequestUserID(ctx context.Context) string {
	return RequestUser(ctx).ID
}
