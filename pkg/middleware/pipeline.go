package middleware

import (
	"fmt"
	"net/http"
)

// Decorator wraps a handler with cross-cutting behavior.
type Decorator func(http.Handler) http.Handler

// Chain composes decorators around a terminal handler so that the first
// decorator in the list is outermost: Chain(a, b)(h) serves a(b(h)).
//
// Request-phase logic therefore runs in list order and completion-phase
// logic (deferred work) unwinds in reverse. Composition is pure: the fold
// happens once here, the returned handler is reusable and safe for
// concurrent requests, and all per-request state is allocated per
// invocation by the individual decorators.
//
// A nil decorator is a programming error and panics at construction time,
// never per-request.
func Chain(decorators ...Decorator) Decorator {
	for i, d := range decorators {
		if d == nil {
			panic(fmt.Sprintf("middleware: nil decorator at index %d", i))
		}
	}
	return func(final http.Handler) http.Handler {
		if final == nil {
			panic("middleware: nil terminal handler")
		}
		for i := len(decorators) - 1; i >= 0; i-- {
			final = decorators[i](final)
		}
		return final
	}
}
