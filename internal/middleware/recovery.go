package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recoverer is a middleware that recovers from panics.
// It logs the panic and returns the same opaque 500 body the handlers use.
// The stack trace is only logged when isDevelopment is set.
func Recoverer(logger *slog.Logger, isDevelopment bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				attrs := []any{
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rvr),
				}
				if isDevelopment {
					attrs = append(attrs, slog.String("stack", string(debug.Stack())))
				}
				logger.Error("panic_recovered", attrs...)

				writeJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// errorBody mirrors the handler package error shape.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: message, Code: code})
}
