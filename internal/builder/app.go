package builder

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/futig/behavior-profile/internal/telegram"
	"go.uber.org/zap"
)

const httpShutdownTimeout = 30 * time.Second

// daemon is what an App keeps running until a shutdown signal arrives
type daemon interface {
	start(ctx context.Context) error
	stop(ctx context.Context) error
	name() string
}

// App runs one daemon on top of the shared assessment core
type App struct {
	daemon daemon
	core   *core
	logger *zap.Logger
}

// Run starts the daemon and blocks until SIGINT/SIGTERM or a daemon error.
// Live assessment sessions are closed on the way out.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting "+a.daemon.name())
		if err := a.daemon.start(ctx); err != nil {
			errChan <- err
		}
	}()

	var runErr error
	select {
	case runErr = <-errChan:
		a.logger.Error(a.daemon.name()+" error", zap.Error(runErr))
	case <-ctx.Done():
		a.logger.Info("Received shutdown signal")
	}

	if err := a.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer cancel()

	a.logger.Info("Shutting down " + a.daemon.name())
	err := a.daemon.stop(ctx)
	if err != nil {
		a.logger.Error("Shutdown error", zap.Error(err))
	}

	closed := a.core.close()
	a.logger.Info("Application stopped",
		zap.Int("closed_sessions", closed),
	)
	return err
}

type httpDaemon struct {
	server *http.Server
}

func (d httpDaemon) name() string { return "HTTP server on " + d.server.Addr }

func (d httpDaemon) start(context.Context) error {
	if err := d.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (d httpDaemon) stop(ctx context.Context) error {
	return d.server.Shutdown(ctx)
}

// botDaemon adapts the long-polling bot; Start returns once polling runs
type botDaemon struct {
	bot telegram.Bot
}

func (d botDaemon) name() string { return "telegram bot" }

func (d botDaemon) start(ctx context.Context) error {
	return d.bot.Start(ctx)
}

func (d botDaemon) stop(context.Context) error {
	return d.bot.Stop()
}
