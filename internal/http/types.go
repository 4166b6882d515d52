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

type Server struct {
	Store          ladder.Store
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
