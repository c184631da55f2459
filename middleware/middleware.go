// Package middleware loads HTTP request bodies through a zephyr type before
// the wrapped handler runs. It uses only net/http so it plugs into any router
// that accepts func(http.Handler) http.Handler.
package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/reoring/zephyr"
	"github.com/reoring/zephyr/codec"
	"github.com/reoring/zephyr/internal/logging"
)

// DefaultMaxBodyBytes bounds request bodies read by LoadBody.
const DefaultMaxBodyBytes = 1 << 20

// ctxKeyLoaded is the context key for the loaded request value.
type ctxKeyLoaded struct{}

// ContextWithLoaded attaches a loaded value to the context.
func ContextWithLoaded(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyLoaded{}, v)
}

// LoadedFromContext retrieves the loaded value as a T.
func LoadedFromContext[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(ctxKeyLoaded{}).(T)
	return v, ok
}

// ErrorPayload shapes a validation failure for responses: the message tree
// under "errors" and its flattened form under "issues".
func ErrorPayload(ve *zephyr.ValidationError) map[string]any {
	return map[string]any{"errors": ve.Messages, "issues": ve.Issues()}
}

// Options tunes LoadBody. The zero value is usable.
type Options struct {
	// MaxBodyBytes caps the request body; 0 means DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// Logger receives request-level failures; nil discards them.
	Logger *slog.Logger
}

// LoadBody decodes the request body according to its Content-Type (JSON
// when absent), loads it with t and stores the result with ContextWithLoaded.
// Undecodable bodies get 400, validation failures 422 with ErrorPayload.
func LoadBody(t zephyr.Type, opt Options) func(http.Handler) http.Handler {
	limit := opt.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	log := opt.Logger
	if log == nil {
		log = logging.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := codec.JSON()
			if ct := r.Header.Get("Content-Type"); ct != "" {
				var err error
				if c, err = codec.ForContentType(ct); err != nil {
					writeError(w, http.StatusUnsupportedMediaType, err)
					return
				}
			}
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
			if err != nil {
				status := http.StatusBadRequest
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					status = http.StatusRequestEntityTooLarge
				}
				writeError(w, status, err)
				return
			}
			data, err := codec.Decode(c, body)
			if err != nil {
				log.Debug("request body rejected", "path", r.URL.Path, "error", err)
				writeError(w, http.StatusBadRequest, err)
				return
			}
			v, err := t.Load(r.Context(), data)
			if err != nil {
				if ve, ok := zephyr.AsValidationError(err); ok {
					log.Debug("request body invalid", "path", r.URL.Path, "issues", len(ve.Issues()))
					writeJSON(w, http.StatusUnprocessableEntity, ErrorPayload(ve))
					return
				}
				log.Error("request body load failed", "path", r.URL.Path, "error", err)
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithLoaded(r.Context(), v)))
		})
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := codec.Encode(codec.JSON(), v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
