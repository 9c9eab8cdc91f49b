package command

import (
	"sync"

	"golang.org/x/time/rate"
)

// Middleware wraps a handler.
type Middleware func(Handler) Handler

// Chain wraps h so the first middleware is outermost.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// WithCooldown limits each actor to limit calls per second with the given
// burst. A throttled call messages the actor and counts as handled.
func WithCooldown(limit rate.Limit, burst int, msg string) Middleware {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	get := func(id string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[id]
		if !ok {
			l = rate.NewLimiter(limit, burst)
			limiters[id] = l
		}
		return l
	}
	return func(next Handler) Handler {
		return HandlerFunc(func(inv *Invocation) (bool, error) {
			if !get(inv.Actor.ID()).Allow() {
				if msg != "" {
					inv.Actor.Message(msg)
				}
				return true, nil
			}
			return next.OnCommand(inv)
		})
	}
}
