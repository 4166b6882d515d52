package http

import (
	"net/http"

	"github.com/kalstad/office-pong/internal/config"
	"github.com/kalstad/office-pong/internal/ladder"
	"github.com/kalstad/office-pong/internal/metrics"
	"github.com/kalstad/office-pong/internal/notifier"
	"github.com/kalstad/office-pong/internal/processor"
	"github.com/kalstad/office-pong/internal/pubsub"
)

func NewServer(store ladder.Store, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an
	// authentication middleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /api/offices", Chain(s.ListOfficesHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/offices", Chain(s.AddOfficeHandler(), paramsMiddleware))

	s.Router.Handle("GET /api/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/players", Chain(s.AddPlayerHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/players/{id}/games", Chain(s.PlayerGamesHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/players/{id}", Chain(s.RenamePlayerHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /api/players/{id}", Chain(s.RemovePlayerHandler(), paramsMiddleware))

	s.Router.Handle("GET /api/games", Chain(s.ListGamesHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/games/{id}", Chain(s.GetGameHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/games", Chain(s.RecordGameHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /api/games/{id}", Chain(s.DeleteGameHandler(), paramsMiddleware))

	s.Router.Handle("GET /api/crossgames", Chain(s.ListCrossGamesHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/crossgames", Chain(s.RecordCrossGameHandler(), paramsMiddleware))

	s.Router.Handle("GET /api/ratingfunctions", Chain(s.RatingFunctionsHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/ratingfunctions/sample", Chain(s.RatingSampleHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/simulate", Chain(s.SimulateHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/ratingstats", Chain(s.RatingStatsHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/rerate", Chain(s.RerateHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/otherstats", Chain(s.OtherStatsHandler(), paramsMiddleware))

	s.Router.Handle("POST /api/leaderboard", Chain(s.NotifyLeaderboardHandler(), paramsMiddleware))

	// Pub/Sub push subscription endpoint.
	s.Router.Handle("POST /events/match-recorded", Chain(s.MatchRecordedEventHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
