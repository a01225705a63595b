// The sweep command reconciles work sessions: it auto-closes open sessions
// past their company's threshold and flags workers whose closed hours break
// the configured weekly or monthly caps. Run it from cron; the HTTP service
// itself carries no background scheduler.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/gtiq/config"
	"github.com/gtiq/database"
	"github.com/gtiq/events"
	"github.com/gtiq/timeclock"
)

func main() {
	var (
		staleOnly        = flag.Bool("stale-only", false, "Only auto-close stale sessions, skip limit checks")
		limitsOnly       = flag.Bool("limits-only", false, "Only check hour limits, skip stale sessions")
		scheduleLookback = flag.Duration("schedule-lookback", 24*time.Hour, "How far back to scan clock-ins for schedule violations")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := database.InitializeWithOptions(&cfg.Database, true); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	var publisher events.Publisher
	if cfg.Events.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			log.Printf("Warning: broker unavailable, sweeping without publishing: %v", err)
		} else {
			defer amqpPublisher.Close()
			publisher = amqpPublisher
		}
	}

	svc := timeclock.NewService(database.GetDB(), publisher)
	ctx := context.Background()
	now := time.Now().UTC()

	if !*limitsOnly {
		closed, err := svc.SweepStale(ctx, now)
		if err != nil {
			log.Fatalf("Stale sweep failed: %v", err)
		}
		log.Printf("Auto-closed %d stale session(s)", closed)
	}

	if !*staleOnly {
		flagged, err := svc.FlagLimitBreaches(ctx, now)
		if err != nil {
			log.Fatalf("Limit check failed: %v", err)
		}
		log.Printf("Flagged %d worker(s) over their hour limits", flagged)

		filed, err := svc.FlagScheduleViolations(ctx, now, *scheduleLookback)
		if err != nil {
			log.Fatalf("Schedule check failed: %v", err)
		}
		log.Printf("Filed %d schedule violation incident(s)", filed)
	}
}
