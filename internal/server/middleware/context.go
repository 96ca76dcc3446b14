package middleware

import (
	"context"

	"github.com/OFFIS-RIT/compass/internal/queue"
	"github.com/OFFIS-RIT/compass/internal/storage"
	"github.com/OFFIS-RIT/compass/pkg/leaselock"
	"github.com/OFFIS-RIT/compass/pkg/similarity"
	"github.com/OFFIS-RIT/compass/pkg/store"

	"github.com/labstack/echo/v4"
)

// Locker serializes writes that share a key.
type Locker interface {
	WithLease(ctx context.Context, key string, opts leaselock.Options, fn func(ctx context.Context) error) error
}

type App struct {
	Engine *similarity.Engine
	Store  store.ClassificationStore
	Locks  Locker
	Queue  queue.Channel
	S3     storage.ObjectPutter
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
