package bankos

import (
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/oskern/bankos/model"
	"github.com/oskern/bankos/service/events"
	"github.com/oskern/bankos/service/logging"
	"github.com/oskern/bankos/service/messaging"
	"github.com/oskern/bankos/service/notify"
	"github.com/oskern/bankos/service/scheduler"
	"github.com/oskern/bankos/tracing"
)

// Option customizes the Service facade.
type Option func(s *Service)

// WithConfig sets the configuration the facade is built from.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithQuantum overrides the configured scheduler time slice.
func WithQuantum(quantum time.Duration) Option {
	return func(s *Service) {
		s.quantum = quantum
	}
}

// WithPageCapacity overrides the configured number of page slots.
func WithPageCapacity(pages int) Option {
	return func(s *Service) {
		s.pageCapacity = pages
	}
}

// WithLogger sets the transaction/error log service. When unset the facade
// opens the files named by the configuration, or discards lines when no
// files are configured.
func WithLogger(logger *logging.Service) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithQueue sets the transaction queue implementation.
func WithQueue(queue messaging.Queue[model.Transaction]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithEventPublisher sets the external notification mirror target,
// overriding any events section in the configuration.
func WithEventPublisher(publisher events.Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithNotificationTap registers an observer invoked for every pushed
// notification, after the channel lock is released.
func WithNotificationTap(tap notify.Tap) Option {
	return func(s *Service) {
		s.tap = tap
	}
}

// WithStateListeners registers additional transaction lifecycle listeners
// alongside the built-in process table.
func WithStateListeners(listeners ...scheduler.StateListener) Option {
	return func(s *Service) {
		s.listeners = append(s.listeners, listeners...)
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path. The function is
// safe to call multiple times – the first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter. This enables
// integrations with exporters other than the built-in stdout exporter, for example OTLP, Jaeger or
// Zipkin. The function is safe to call multiple times – the first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
