package middleware

import "context"

type contextKey string

const (
	ctxWaiterID     contextKey = "waiter_id"
	ctxRestaurantID contextKey = "restaurant_id"
	ctxSessionID    contextKey = "session_id"
)

// WithWaiterID stores the authenticated waiter id on the context.
func WithWaiterID(ctx context.Context, waiterID string) context.Context {
	return context.WithValue(ctx, ctxWaiterID, waiterID)
}

// WithRestaurantID stores the restaurant scope on the context.
func WithRestaurantID(ctx context.Context, restaurantID string) context.Context {
	return context.WithValue(ctx, ctxRestaurantID, restaurantID)
}

// WithSessionID stores the terminal session id on the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, ctxSessionID, sessionID)
}

// WaiterID returns the authenticated waiter id from the request context.
func WaiterID(ctx context.Context) string {
	v, _ := ctx.Value(ctxWaiterID).(string)
	return v
}

// RestaurantID returns the restaurant scope from the request context.
func RestaurantID(ctx context.Context) string {
	v, _ := ctx.Value(ctxRestaurantID).(string)
	return v
}

// SessionID returns the terminal session id from the request context.
func SessionID(ctx context.Context) string {
	v, _ := ctx.Value(ctxSessionID).(string)
	return v
}
