package routine

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-slark/baton/logger"
)

// Go runs fn in the calling goroutine and converts a panic into an error
// log.
func Go(ctx context.Context, fn func()) {
	defer func(ctx context.Context) {
		if r := recover(); r != nil {
			logger.Log(ctx, logger.ErrorLevel, map[string]interface{}{"error": fmt.Sprintf("%+v", r)}, "routine recover")
		}
	}(ctx)
	fn()
}

// GoSafe spawns fn on its own goroutine with the same recover behavior.
func GoSafe(ctx context.Context, fn func()) {
	go Go(ctx, fn)
}

// multi routines composition

type Routine interface {
	Start()
}

type Group struct {
	routines []Routine
}

func NewGroup() *Group {
	return &Group{}
}

func (g *Group) Append(r ...Routine) {
	g.routines = append(g.routines, r...)
}

func (g *Group) Start() {
	wg := sync.WaitGroup{}
	wg.Add(len(g.routines))
	for index := range g.routines {
		r := g.routines[index]
		GoSafe(context.TODO(), func() {
			defer wg.Done()
			r.Start()
		})
	}
	wg.Wait()
}
