package fanout

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	fanoutWidth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "banner_fanout_width",
		Help: "Number of Banner IDs dispatched by the last fan-out",
	})

	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "banner_resolutions_total",
		Help: "Total Duck ID resolutions by result",
	}, []string{"result"})
)

// Config holds fan-out configuration.
type Config struct {
	// MaxConcurrency caps in-flight lookups. Zero or negative means one
	// goroutine per ID with no cap.
	MaxConcurrency int
}

// DefaultConfig returns the unbounded configuration.
func DefaultConfig() Config {
	return Config{}
}

// Resolver translates a single Banner ID. *banner.API implements it.
type Resolver interface {
	ResolveDuckID(ctx context.Context, bannerID string) (string, error)
}

// Fanout dispatches concurrent Duck ID lookups.
type Fanout struct {
	resolver Resolver
	config   Config
}

// New creates a new Fanout.
func New(resolver Resolver, config Config) *Fanout {
	return &Fanout{
		resolver: resolver,
		config:   config,
	}
}

// ResolveAll resolves every ID and returns the Duck IDs in input order.
// Duplicate IDs are resolved once per occurrence.
func (f *Fanout) ResolveAll(ctx context.Context, bannerIDs []string) ([]string, error) {
	start := time.Now()
	fanoutWidth.Set(float64(len(bannerIDs)))

	log.Info().
		Int("ids", len(bannerIDs)).
		Int("max_concurrency", f.config.MaxConcurrency).
		Msg("Starting Duck ID fan-out")

	duckIDs := make([]string, len(bannerIDs))

	var g errgroup.Group
	if f.config.MaxConcurrency > 0 {
		g.SetLimit(f.config.MaxConcurrency)
	}

	for i, bannerID := range bannerIDs {
		i, bannerID := i, bannerID
		g.Go(func() error {
			duckID, err := f.resolver.ResolveDuckID(ctx, bannerID)
			if err != nil {
				resolutionsTotal.WithLabelValues("error").Inc()
				log.Warn().
					Err(err).
					Int("index", i).
					Str("banner_id", bannerID).
					Msg("Duck ID resolution failed")
				return err
			}
			resolutionsTotal.WithLabelValues("ok").Inc()
			duckIDs[i] = duckID
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve %d banner ids: %w", len(bannerIDs), err)
	}

	log.Info().
		Int("ids", len(bannerIDs)).
		Dur("duration", time.Since(start)).
		Msg("Fan-out complete")

	return duckIDs, nil
}
