package rest

import (
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/dmitrijs2005/chatop/internal/common"
	"github.com/dmitrijs2005/chatop/internal/logging"
	"github.com/dmitrijs2005/chatop/internal/server/auth"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

const requestIDHeader = "X-Request-ID"

type middleware func(http.Handler) http.Handler

func chain(h http.Handler, mws ...middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// CORSMiddleware lets browser front ends on any origin call the API.
// Preflight requests are answered here and never reach the access policy.
func CORSMiddleware() middleware {
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Authorization", "Cache-Control", "Content-Type"}),
		handlers.ExposedHeaders([]string{"Location"}),
	)
}

// statusRecorder remembers the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) code() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

// RecoveryMiddleware turns a panic into the generic 500 body.
func RecoveryMiddleware(responders *Responders, logger logging.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					logger.Error(r.Context(), "panic while serving request", "path", r.URL.Path, "panic", p)
					responders.write(w, r, http.StatusInternalServerError, msgInternal, nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware tags each request with an id and logs its outcome.
func LoggingMiddleware(logger logging.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := r.Header.Get(requestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			logger.Info(r.Context(), "request",
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.code(),
				"duration", time.Since(start),
			)
		})
	}
}

// MetricsMiddleware records request counts and latencies labelled by the
// route template, so path parameters do not explode cardinality.
func MetricsMiddleware(m *Metrics, router *mux.Router) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			route := "unmatched"
			var match mux.RouteMatch
			if router.Match(r, &match) && match.Route != nil {
				if tmpl, err := match.Route.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}

			m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.code())).Inc()
			m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// AuthMiddleware runs the authentication gate. It never rejects.
func AuthMiddleware(gate *auth.Gate) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := gate.Authenticate(r.Context(), r.Header.Get(common.AuthorizationHeaderName))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PolicyMiddleware enforces the access policy on the cleaned request path.
func PolicyMiddleware(policy *auth.Policy, responders *Responders, m *Metrics) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, _ := auth.PrincipalFromContext(r.Context())
			decision := policy.Decide(path.Clean("/"+r.URL.Path), principal)

			if m != nil {
				m.AuthDecisions.WithLabelValues(decision.String()).Inc()
			}

			switch decision {
			case auth.Allowed:
				next.ServeHTTP(w, r)
			case auth.RejectedForbidden:
				responders.AccessDenied(w, r, "")
			default:
				responders.Unauthenticated(w, r, "")
			}
		})
	}
}
