// Command competition runs the allocation for a project stored in a SQLite
// file and prints the market revenues.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/pkg/logger"
	"github.com/competition-service/internal/repository/memory"
	"github.com/competition-service/internal/repository/sqlite"
	"github.com/competition-service/internal/sales"
	"github.com/competition-service/internal/usecase"
	"github.com/competition-service/internal/usecase/dto"
)

func main() {
	dbPath := flag.String("db", "", "SQLite file with project and base data")
	projectFlag := flag.String("project", "", "project id, defaults to the first project in the file")
	settingFlag := flag.String("setting", "both", "nullfall, planfall or both")
	top := flag.Int("top", 0, "print only the N markets with the highest revenue")
	cutoff := flag.Float64("cutoff", sales.DefaultCutoffKm, "nearby distance of same chain competitors in km")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "-db is required")
		flag.Usage()
		os.Exit(2)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log, err := logger.New(level, "competition-cli")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if err := run(context.Background(), os.Stdout, *dbPath, *projectFlag, *settingFlag, *top, *cutoff, log); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, dbPath, projectFlag, settingFlag string, top int, cutoff float64, log *zap.Logger) error {
	settings, err := parseSettings(settingFlag)
	if err != nil {
		return err
	}

	store, err := sqlite.Open(dbPath, log)
	if err != nil {
		return err
	}
	defer store.Close()

	projectID, err := resolveProject(ctx, store, projectFlag)
	if err != nil {
		return err
	}

	opts := sales.DefaultOptions()
	opts.CutoffKm = cutoff
	uc := usecase.NewCompetitionUseCase(store, store, memory.NewCacheStore(), nil, opts, time.Hour, log)

	for _, s := range settings {
		start := time.Now()
		resp, _, err := uc.Calculate(ctx, projectID, s, dto.CalculateRequest{})
		if err != nil {
			return err
		}
		printResult(out, resp, top, time.Since(start))
	}
	return nil
}

func parseSettings(raw string) ([]domain.Setting, error) {
	if raw == "both" {
		return domain.Settings, nil
	}
	s, err := domain.ParseSetting(raw)
	if err != nil {
		return nil, err
	}
	return []domain.Setting{s}, nil
}

func resolveProject(ctx context.Context, store *sqlite.Store, raw string) (uuid.UUID, error) {
	if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid -project: %w", err)
		}
		return id, nil
	}
	ids, err := store.ProjectIDs(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if len(ids) == 0 {
		return uuid.Nil, fmt.Errorf("%w: file has no projects", domain.ErrProjectNotFound)
	}
	return ids[0], nil
}

func printResult(out io.Writer, resp *dto.CompetitionResponse, top int, took time.Duration) {
	fmt.Fprintf(out, "\n%s  project %s  (%d markets, %d cells, %s)\n",
		resp.Setting, resp.ProjectID, resp.MarketCount, resp.CellCount, took.Round(time.Millisecond))
	fmt.Fprintf(out, "purchasing power %s, allocated %s\n\n",
		humanize.CommafWithDigits(resp.TotalPurchasingPower.InexactFloat64(), 0),
		humanize.CommafWithDigits(resp.TotalRevenue.InexactFloat64(), 0))

	markets := slices.Clone(resp.Markets)
	slices.SortStableFunc(markets, func(a, b dto.MarketRevenue) int { return b.Revenue.Cmp(a.Revenue) })
	if top > 0 && top < len(markets) {
		markets = markets[:top]
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "ID\tName\tChain\tType\tRevenue\tShare\t")
	for _, m := range markets {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%s%%\t\n",
			m.MarketID, m.Name, m.ChainID, m.BusinessType,
			humanize.CommafWithDigits(m.Revenue.InexactFloat64(), 2),
			m.Share.Shift(2).StringFixed(2))
	}
	w.Flush()
}
