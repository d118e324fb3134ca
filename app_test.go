package baton

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type blockingServer struct {
	stop chan struct{}
}

func (s *blockingServer) Start() error {
	<-s.stop
	return nil
}

func (s *blockingServer) Stop(ctx context.Context) error {
	close(s.stop)
	return nil
}

func TestAppStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	app := NewApp(Context(ctx), Name("demo"), Servers(&blockingServer{stop: make(chan struct{})}))
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	assert.NoError(t, app.Run())
}

func TestAppOptions(t *testing.T) {
	app := NewApp(Name("demo"), StopTimeout(time.Second), Servers(&blockingServer{stop: make(chan struct{})}))
	assert.Equal(t, "demo", app.name)
	assert.Equal(t, time.Second, app.timeout)
	assert.Len(t, app.servers, 1)
	assert.NotEmpty(t, app.id)
}
