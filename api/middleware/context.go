package middleware

import (
	"context"

	"github.com/angelmondragon/menuflow-backend/internal/restaurants"
)

type contextKey string

const ctxActor contextKey = "actor"

// ActorFromContext returns the authenticated dashboard actor seeded by Auth.
func ActorFromContext(ctx context.Context) (restaurants.Actor, bool) {
	if ctx == nil {
		return restaurants.Actor{}, false
	}
	actor, ok := ctx.Value(ctxActor).(restaurants.Actor)
	return actor, ok
}

// WithActor injects the actor into the context for downstream handlers.
func WithActor(ctx context.Context, actor restaurants.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}
