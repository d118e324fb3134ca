package routine

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type service struct {
	started *int32
}

func (s *service) Start() {
	atomic.AddInt32(s.started, 1)
}

func TestGroup(t *testing.T) {
	var started int32
	g := NewGroup()
	g.Append(&service{started: &started}, &service{started: &started})
	g.Start()
	assert.Equal(t, int32(2), atomic.LoadInt32(&started))
}

func TestGoRecovers(t *testing.T) {
	Go(context.TODO(), func() {
		panic("boom")
	})
}
