package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/chatop/internal/logging"
	"github.com/dmitrijs2005/chatop/internal/server/auth"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Users    UserService
	Rentals  RentalService
	Messages MessageService
	Health   HealthCheck

	Gate   *auth.Gate
	Policy *auth.Policy

	Logger   logging.Logger
	Registry *prometheus.Registry
	Clock    func() time.Time

	FilesURL       string
	MaxUploadBytes int64
}

// NewRouter wires routes and the middleware chain: recovery, logging,
// CORS, metrics, authentication and access policy. CORS sits ahead of the
// policy so browser preflights are answered without a token.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger.With("module", "rest")

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	policy := d.Policy
	if policy == nil {
		policy = auth.DefaultPolicy()
	}

	responders := NewResponders(d.Logger, d.Clock)
	metrics := NewMetrics(reg)

	filesURL := d.FilesURL
	if filesURL == "" {
		filesURL = "/files"
	}

	h := &Handlers{
		users:          d.Users,
		rentals:        d.Rentals,
		messages:       d.Messages,
		health:         d.Health,
		responders:     responders,
		logger:         logger,
		filesURL:       filesURL,
		maxUploadBytes: d.MaxUploadBytes,
	}

	r := mux.NewRouter()

	// registered on the root router: a mux subrouter loses the method
	// mismatch once a later route fails on path, turning 405 into 404
	r.HandleFunc("/api/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/me", h.Me).Methods(http.MethodGet)
	r.HandleFunc("/api/rentals", h.ListRentals).Methods(http.MethodGet)
	r.HandleFunc("/api/rentals", h.CreateRental).Methods(http.MethodPost)
	r.HandleFunc("/api/rentals/{id:[0-9]+}", h.GetRental).Methods(http.MethodGet)
	r.HandleFunc("/api/rentals/{id:[0-9]+}", h.UpdateRental).Methods(http.MethodPut)
	r.HandleFunc("/api/messages", h.CreateMessage).Methods(http.MethodPost)

	r.HandleFunc("/files/{name}", h.ServeFile).Methods(http.MethodGet)
	r.HandleFunc("/actuator/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		responders.write(w, req, http.StatusNotFound, "No handler for "+req.Method+" "+req.URL.Path, nil)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		responders.write(w, req, http.StatusMethodNotAllowed, "Method "+req.Method+" is not supported", nil)
	})

	return chain(r,
		RecoveryMiddleware(responders, logger),
		LoggingMiddleware(logger),
		CORSMiddleware(),
		MetricsMiddleware(metrics, r),
		AuthMiddleware(d.Gate),
		PolicyMiddleware(policy, responders, metrics),
	)
}
