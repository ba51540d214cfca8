package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

func isTransient(err error) bool {
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}

// retryOnce runs op and, if it failed with a transient error while ctx is
// still live, runs it exactly one more time.
func retryOnce(ctx context.Context, transient func(error) bool, op func(context.Context) error) error {
	err := op(ctx)
	if err == nil || !transient(err) || ctx.Err() != nil {
		return err
	}
	return op(ctx)
}
