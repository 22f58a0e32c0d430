package ripple

import (
	"context"
	"fmt"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// Through runs each element through a pipz pipeline and emits the outcome.
// Processing happens synchronously on the delivering goroutine with ctx.
//
// Example:
//
//	normalize := pipz.Apply(pipz.NewIdentity("normalize", "trim and lowercase"),
//	    func(_ context.Context, s string) (string, error) {
//	        return strings.ToLower(strings.TrimSpace(s)), nil
//	    })
//	names := ripple.Through(ctx, input, normalize)
func Through[T any](ctx context.Context, o Observable[T], pipeline pipz.Chainable[T]) Observable[Result[T]] {
	return Map(o, func(e T) Result[T] {
		out, err := pipeline.Process(ctx, e)
		if err != nil {
			capitan.Emit(ctx, PipelineFailed,
				KeyError.Field(err.Error()),
			)
			return Failure[T](fmt.Errorf("pipeline: %w", err))
		}
		return Success(out)
	})
}
