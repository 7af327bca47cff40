package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the OAuth flow and the webhook
// pipeline.
type Metrics struct {
	OAuthBegins     prometheus.Counter
	OAuthCallbacks  *prometheus.CounterVec
	WebhookDispatch *prometheus.CounterVec
	GraphQLProxied  prometheus.Counter
}

// New registers the collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OAuthBegins: factory.NewCounter(prometheus.CounterOpts{
			Name: "oauth_begin_total",
			Help: "OAuth flows started.",
		}),
		OAuthCallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "oauth_callback_total",
			Help: "OAuth callbacks processed, by outcome.",
		}, []string{"status"}),
		WebhookDispatch: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_dispatch_total",
			Help: "Webhook deliveries processed, by topic and outcome.",
		}, []string{"topic", "status"}),
		GraphQLProxied: factory.NewCounter(prometheus.CounterOpts{
			Name: "graphql_proxy_requests_total",
			Help: "GraphQL requests forwarded upstream.",
		}),
	}
}
