package baton

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-slark/baton/logger"
	utils "github.com/go-slark/baton/pkg"
	"github.com/go-slark/baton/transport"
	"golang.org/x/sync/errgroup"
)

type App struct {
	id      string
	name    string
	servers []transport.Server
	signals []os.Signal
	timeout time.Duration
	ctx     context.Context
}

type AppOption func(*App)

func Name(name string) AppOption {
	return func(a *App) {
		a.name = name
	}
}

func Signals(sigs ...os.Signal) AppOption {
	return func(a *App) {
		a.signals = sigs
	}
}

func Context(ctx context.Context) AppOption {
	return func(a *App) {
		a.ctx = ctx
	}
}

func StopTimeout(timeout time.Duration) AppOption {
	return func(a *App) {
		a.timeout = timeout
	}
}

func Servers(srv ...transport.Server) AppOption {
	return func(a *App) {
		a.servers = append(a.servers, srv...)
	}
}

func NewApp(opts ...AppOption) *App {
	app := &App{
		id:      utils.BuildRequestID(),
		signals: []os.Signal{syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT},
		timeout: 3 * time.Second,
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Run starts every server and blocks until a stop signal arrives or one
// of them fails, then stops them all within the configured timeout.
func (a *App) Run() error {
	eg, ctx := errgroup.WithContext(a.ctx)
	c := make(chan os.Signal, 1)
	signal.Notify(c, a.signals...)
	defer signal.Stop(c)

	stop := make(chan struct{})
	eg.Go(func() error {
		select {
		case <-ctx.Done():
		case sig := <-c:
			logger.Log(ctx, logger.InfoLevel, map[string]interface{}{"app_id": a.id, "name": a.name, "signal": sig.String()}, "app stopping")
		}
		close(stop)
		return nil
	})
	for _, server := range a.servers {
		s := server
		eg.Go(func() error {
			return s.Start()
		})

		eg.Go(func() error {
			<-stop
			cx, cancel := context.WithTimeout(context.Background(), a.timeout)
			defer cancel()
			return s.Stop(cx)
		})
	}
	logger.Log(a.ctx, logger.InfoLevel, map[string]interface{}{"app_id": a.id, "name": a.name}, "app starting")
	return eg.Wait()
}
