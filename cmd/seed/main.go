// Command seed writes a synthetic project into a SQLite file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/competition-service/internal/pkg/logger"
	"github.com/competition-service/internal/repository/sqlite"
	"github.com/competition-service/internal/synthetic"
)

func main() {
	cfg := synthetic.DefaultConfig()

	out := flag.String("out", "competition.sqlite", "SQLite file to write")
	projectFlag := flag.String("project", "", "project id, random if empty")
	flag.IntVar(&cfg.Markets, "markets", cfg.Markets, "number of markets")
	flag.IntVar(&cfg.Cells, "cells", cfg.Cells, "number of cells")
	flag.IntVar(&cfg.Chains, "chains", cfg.Chains, "number of chains")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	flag.Float64Var(&cfg.ExtentKm, "extent", cfg.ExtentKm, "side length of the area in km")
	flag.Parse()

	log, err := logger.New("info", "competition-seed")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	projectID := uuid.New()
	if *projectFlag != "" {
		if projectID, err = uuid.Parse(*projectFlag); err != nil {
			log.Fatal("Invalid project id", zap.String("project", *projectFlag), zap.Error(err))
		}
	}

	project, base, err := synthetic.Generate(cfg)
	if err != nil {
		log.Fatal("Failed to generate project", zap.Error(err))
	}

	store, err := sqlite.Open(*out, log)
	if err != nil {
		log.Fatal("Failed to open SQLite", zap.String("path", *out), zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.SaveBaseData(ctx, base); err != nil {
		log.Fatal("Failed to save base data", zap.Error(err))
	}
	if err := store.SaveProject(ctx, projectID, project); err != nil {
		log.Fatal("Failed to save project", zap.Error(err))
	}

	var pp float64
	for _, c := range project.Cells {
		pp += c.PurchasingPower
	}
	log.Info("Project written",
		zap.String("path", *out),
		zap.String("project_id", projectID.String()),
		zap.Int("markets", len(project.Markets)),
		zap.Int("cells", len(project.Cells)),
		zap.String("relations", humanize.Comma(int64(len(project.Relations)))),
		zap.String("purchasing_power", humanize.CommafWithDigits(pp, 0)))

	fmt.Fprintln(os.Stdout, projectID)
}
