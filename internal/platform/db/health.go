package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// PoolStats represents database connection pool statistics.
type PoolStats struct {
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
}

func GetPoolStats(pool *pgxpool.Pool) *PoolStats {
	stat := pool.Stat()
	return &PoolStats{
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration().String(),
	}
}

// Probe checks one dependency; a nil error means healthy.
type Probe func(ctx context.Context) error

// HealthHandler pings every probe and reports 503 if any is down. Optional
// dependencies (the cache) are registered only when configured.
func HealthHandler(pool *pgxpool.Pool, probes map[string]Probe) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		all := make(map[string]Probe, len(probes)+1)
		for name, p := range probes {
			all[name] = p
		}
		if pool != nil {
			all["database"] = func(ctx context.Context) error { return pool.Ping(ctx) }
		}

		code, body := runProbes(ctx, all)
		if pool != nil {
			body["pool"] = GetPoolStats(pool)
		}
		return c.JSON(code, body)
	}
}

func runProbes(ctx context.Context, probes map[string]Probe) (int, map[string]interface{}) {
	checks := make(map[string]string, len(probes))
	code, status := http.StatusOK, "healthy"
	for name, probe := range probes {
		if err := probe(ctx); err != nil {
			checks[name] = err.Error()
			code, status = http.StatusServiceUnavailable, "unhealthy"
			continue
		}
		checks[name] = "ok"
	}
	return code, map[string]interface{}{
		"status": status,
		"checks": checks,
	}
}
