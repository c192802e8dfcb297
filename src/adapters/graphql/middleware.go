package graphqladapter

import (
	"context"
	"log/slog"
	"net/http"

	"domaintracker/src/helper/auth"
	"domaintracker/src/helper/i18n"
	"domaintracker/src/services/loaders"
)

type batchKey struct{}

func withBatch(ctx context.Context, batch *loaders.Batch) context.Context {
	return context.WithValue(ctx, batchKey{}, batch)
}

func batchFrom(ctx context.Context) (*loaders.Batch, bool) {
	batch, ok := ctx.Value(batchKey{}).(*loaders.Batch)
	return batch, ok
}

// Locale selects the request language from Accept-Language.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tag := i18n.Match(r.Header.Get("Accept-Language"))
		next.ServeHTTP(w, r.WithContext(i18n.WithLanguage(r.Context(), tag)))
	})
}

// Authenticate stores the user key of a valid bearer token in the request
// context. Requests without a token stay anonymous; an invalid token is
// logged and treated the same way.
func Authenticate(logger *slog.Logger, secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseBearer(header, secret)
			if err != nil {
				logger.Warn("Rejected bearer token", "error", err, "remote_addr", r.RemoteAddr)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUserKey(r.Context(), claims.UserKey)))
		})
	}
}

// Loaders opens a fresh set of batch loaders for every request.
func Loaders(service *loaders.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(withBatch(r.Context(), service.NewBatch())))
		})
	}
}
