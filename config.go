package bankos

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"gopkg.in/yaml.v3"

	"github.com/oskern/bankos/service/events/kafka"
	"github.com/oskern/bankos/service/paging"
)

// Config is a serialisable representation of the simulation configuration.
// It can be populated from JSON or YAML. Callers typically start from
// DefaultConfig and override individual fields before passing the result
// to New via WithConfig.
type Config struct {
	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler"`
	Memory    MemoryConfig    `json:"memory" yaml:"memory"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging"`
	// Events enables the external notification mirror when set.
	Events *kafka.Config `json:"events,omitempty" yaml:"events,omitempty"`
}

// SchedulerConfig controls the transaction consumer loop.
type SchedulerConfig struct {
	// QuantumMs is the fixed delay in milliseconds inserted after each
	// executed transaction, simulating a CPU time slice.
	QuantumMs int `json:"quantumMs" yaml:"quantumMs"`
}

// Quantum returns the configured time slice as a duration.
func (c *SchedulerConfig) Quantum() time.Duration {
	return time.Duration(c.QuantumMs) * time.Millisecond
}

// MemoryConfig controls the simulated page cache.
type MemoryConfig struct {
	// Pages is the number of page slots; the resident set never exceeds it.
	Pages int `json:"pages" yaml:"pages"`
}

// LoggingConfig names the append-only log files. Both paths must be set
// together; when both are empty the service discards log lines.
type LoggingConfig struct {
	TransactionLog string `json:"transactionLog" yaml:"transactionLog"`
	ErrorLog       string `json:"errorLog" yaml:"errorLog"`
}

// DefaultConfig returns a Config populated with the simulation defaults:
// a 100ms quantum, ten memory pages and the standard log file names.
func DefaultConfig() *Config {
	return &Config{
		Scheduler: SchedulerConfig{QuantumMs: 100},
		Memory:    MemoryConfig{Pages: paging.DefaultPageCount},
		Logging: LoggingConfig{
			TransactionLog: "transaction_log.txt",
			ErrorLog:       "error_log.txt",
		},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Scheduler.QuantumMs < 0 {
		return fmt.Errorf("scheduler.quantumMs must not be negative")
	}
	if c.Memory.Pages <= 0 {
		return fmt.Errorf("memory.pages must be > 0")
	}
	if (c.Logging.TransactionLog == "") != (c.Logging.ErrorLog == "") {
		return fmt.Errorf("logging.transactionLog and logging.errorLog must be set together")
	}
	if c.Events != nil && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("events.brokers must not be empty")
	}
	return nil
}

// LoadConfig downloads a YAML configuration from the supplied URL and
// applies it over DefaultConfig, so omitted fields keep their defaults.
// Any scheme supported by afs works, including file://, mem:// and, with
// the corresponding storage option, embed://.
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %v: %w", URL, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %v: %w", URL, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
