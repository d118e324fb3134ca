package recovery

import (
	"context"
	"fmt"

	"github.com/go-slark/baton/logger"
	"github.com/go-slark/baton/middleware"
	"github.com/pkg/errors"
)

// Recovery converts a handler panic into an error so one poisoned message
// cannot take down the consumer loop.
func Recovery(l logger.Logger) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (rsp interface{}, err error) {
			defer func() {
				if e := recover(); e != nil {
					err = errors.Errorf("panic: %v", e)
					fields := map[string]interface{}{
						"req":   fmt.Sprintf("%+v", req),
						"error": fmt.Sprintf("%+v", err),
					}
					l.Log(ctx, logger.ErrorLevel, fields, "recover")
				}
			}()
			rsp, err = handler(ctx, req)
			return rsp, err
		}
	}
}
