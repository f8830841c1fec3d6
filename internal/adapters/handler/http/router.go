package http

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

func NewHandler(
	catalogHandler *CatalogHandler,
	votingHandler *VotingHandler,
	resultsHandler *ResultsHandler,
	identity func(http.Handler) http.Handler,
	cfg RouterConfig,
) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(corsOptions(cfg.AllowedOrigins, logger)))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(identity)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", catalogHandler.ListCategories)
			r.Get("/{id}", catalogHandler.GetCategory)
		})

		r.Post("/votes", votingHandler.SubmitVotes)

		r.Route("/voting", func(r chi.Router) {
			r.Get("/eligibility", votingHandler.Eligibility)
			r.Get("/ballot", votingHandler.GetBallot)
			r.Post("/ballot/{action}", votingHandler.BallotAction)
		})

		r.Route("/results", func(r chi.Router) {
			r.Get("/", resultsHandler.GetResults)
			r.Get("/status", resultsHandler.Status)
			r.Get("/countdown", resultsHandler.Countdown)
		})
	})

	return otelhttp.NewHandler(r, "awardvote")
}

// corsOptions allows credentials only for an explicit origin list. Browsers
// drop credentialed responses that carry a wildcard origin, so "*" serves
// anonymous reads and the voter cookie stays same-origin.
func corsOptions(origins []string, logger *slog.Logger) cors.Options {
	credentials := !slices.Contains(origins, "*")
	if !credentials {
		logger.Warn("ALLOWED_ORIGINS contains *, cross-origin requests will not carry the voter cookie")
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: credentials,
		MaxAge:           300,
	}
}
