package metrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const dbGaugeTimeout = 2 * time.Second

// Cellar-wide counts read from Postgres at scrape time.
var dbGauges = []struct {
	name  string
	help  string
	query string
}{
	{
		name:  "lots_fermenting",
		help:  "Production lots currently fermenting",
		query: "SELECT COUNT(*) FROM production_lots WHERE status = 'fermenting'",
	},
	{
		name:  "fermentation_events_unresolved",
		help:  "Unresolved fermentation events on fermenting lots",
		query: `SELECT COUNT(*) FROM fermentation_events e
JOIN production_lots l ON l.id = e.lot_id
WHERE e.resolved = false AND l.status = 'fermenting'`,
	},
	{
		name:  "lots_without_recent_logs",
		help:  "Fermenting lots with no log in the last two days",
		query: `SELECT COUNT(*) FROM production_lots l
WHERE l.status = 'fermenting' AND NOT EXISTS (
	SELECT 1 FROM fermentation_logs f
	WHERE f.lot_id = l.id AND f.log_date >= now() - interval '2 days'
)`,
	},
}

func registerDBMetrics(db *sql.DB, logger logrus.FieldLogger) {
	for _, g := range dbGauges {
		query := g.query
		name := g.name
		prometheus.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Name: metricPrefix + name, Help: g.help},
			func() float64 { return countRows(db, logger, name, query) },
		))
	}
}

func countRows(db *sql.DB, logger logrus.FieldLogger, gauge, query string) float64 {
	if db == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbGaugeTimeout)
	defer cancel()
	var count int64
	if err := db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		if logger != nil {
			logger.WithField("gauge", gauge).Warnf("metrics query failed: %v", err)
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
