package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	trainingweather "training-weather/agents/training-weather"
	"training-weather/shared/config"
	"training-weather/shared/monitoring"
	"training-weather/shared/scheduler"

	"github.com/jonboulle/clockwork"
)

func main() {
	once := flag.Bool("once", false, "run a single check, print the report and exit")
	location := flag.String("location", "", "override the training location (name or \"lat,lon\")")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *location != "" {
		cfg.Training.Location = *location
	}

	if err := scheduler.ValidateSchedule(cfg.Schedule); err != nil {
		log.Fatalf("Failed to validate schedule: %v", err)
	}

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	monitor := monitoring.NewMonitor(clockwork.NewRealClock())
	metrics := monitoring.NewMetrics()

	agent := trainingweather.NewTrainingWeatherAgent(cfg, metrics, monitor)
	s := scheduler.New(cfg, agent, monitor)

	if *once {
		fmt.Println("Running once...")
		if err := agent.Initialize(); err != nil {
			log.Fatalf("Failed to initialize agent: %v", err)
		}

		runErr := s.RunOnce(ctx)
		if report := monitor.LatestReport(); report != nil {
			if err := trainingweather.WriteReport(os.Stdout, report); err != nil {
				log.Printf("Warning: Failed to print report: %v", err)
			}
		}
		if runErr != nil {
			log.Fatalf("Failed to run: %v", runErr)
		}
		return
	}

	fmt.Println("Starting scheduler...")

	if err := s.Start(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("Scheduler failed: %v", err)
	}
}
