// Command lumistub runs the in-memory development server that implements
// the CRM REST contract. It exists so the CLI and integration setups have
// a backend to talk to without the production deployment.
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/lumicrm/lumicrm-go/internal/config"
	"github.com/lumicrm/lumicrm-go/internal/stubapi"
	pkglog "github.com/lumicrm/lumicrm-go/pkg/log"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		config.Module,
		pkglog.Module,
		stubapi.Module,
		fx.Invoke(run),
	)
	app.Run()
}

func run(lc fx.Lifecycle, server *stubapi.Server, log *zap.Logger) {
	addr := os.Getenv("LUMICRM_STUB_ADDR")
	if addr == "" {
		addr = ":8081"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if _, err := server.SeedUser("Admin", "admin@lumicrm.test", "changeme", "admin"); err != nil {
				return err
			}
			log.Info("stub api listening", zap.String("addr", addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
