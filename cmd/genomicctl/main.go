package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"genomic/internal/config"
	"genomic/internal/model"
	"genomic/internal/problems"
	"genomic/internal/storage"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "show":
		return runShow(ctx, args[1:])
	case "delete":
		return runDelete(ctx, args[1:])
	case "problems":
		return runProblems(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runRun(ctx context.Context, args []string) error {
	defaults := config.Default()

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional experiment YAML path")
	problemName := fs.String("problem", defaults.Problem, "problem name (see the problems command)")
	size := fs.Int("size", 0, "genome size in problem units (0 uses the problem default)")
	target := fs.String("target", "", "target phrase for the phrase problem")
	population := fs.Int("pop", defaults.PopulationSize, "population size")
	generations := fs.Int("gens", defaults.Generations, "generation count")
	mutationRate := fs.Float64("rate", defaults.MutationRate, "per-chromosome mutation rate in [0, 1]")
	eliteCount := fs.Int("elites", defaults.EliteCount, "genomes carried over unchanged each generation")
	workers := fs.Int("workers", defaults.Workers, "concurrent evaluation workers")
	seed := fs.Int64("seed", 0, "rng seed (0 picks one from the clock)")
	selectorName := fs.String("selector", defaults.Selector, "parent selection strategy: tournament|elite|rank")
	fitnessGoal := fs.Float64("goal", 0, "best fitness that ends the run early when -stop-at-goal is set")
	stopAtGoal := fs.Bool("stop-at-goal", false, "stop once the fitness goal is reached")
	evaluationsLimit := fs.Int("evaluations-limit", 0, "early-stop total evaluation limit (0 disables)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "genomic.db", "sqlite database path")
	runID := fs.String("run-id", "", "explicit run id (default: random)")
	notes := fs.String("notes", "", "free-form note saved with the run")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	exp := defaults
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		exp = loaded
	}
	applyRunFlags(&exp, setFlags, map[string]any{
		"problem":           *problemName,
		"size":              *size,
		"target":            *target,
		"pop":               *population,
		"gens":              *generations,
		"rate":              *mutationRate,
		"elites":            *eliteCount,
		"workers":           *workers,
		"seed":              *seed,
		"selector":          *selectorName,
		"goal":              *fitnessGoal,
		"stop-at-goal":      *stopAtGoal,
		"evaluations-limit": *evaluationsLimit,
		"store":             *storeKind,
		"db-path":           *dbPath,
		"notes":             *notes,
	})
	if err := exp.Validate(); err != nil {
		return err
	}
	if exp.Seed == 0 {
		exp.Seed = time.Now().UnixNano()
	}

	problem, err := problems.Lookup(exp.Problem)
	if err != nil {
		return err
	}

	store, err := storage.NewStore(exp.Store.Backend, exp.Store.Path)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}

	var spec problems.Spec
	if err := copier.Copy(&spec, &exp); err != nil {
		return err
	}

	id := *runID
	if id == "" {
		id = uuid.NewString()
	}

	started := time.Now()
	outcome, err := problem.Run(ctx, spec)
	if err != nil {
		return err
	}
	elapsed := time.Since(started)

	fmt.Printf("run completed run_id=%s problem=%s pop=%d gens=%d seed=%d\n",
		id, exp.Problem, exp.PopulationSize, outcome.Generations, exp.Seed)
	for i, best := range outcome.BestByGeneration {
		fmt.Printf("generation=%d best_fitness=%.6f\n", i+1, best)
	}
	fmt.Printf("final_best_fitness=%.6f evaluations=%s elapsed=%s\n",
		outcome.BestFitness, humanize.Comma(int64(outcome.Evaluations)), elapsed.Round(time.Millisecond))
	fmt.Printf("best=%s\n", outcome.Best)

	rec := model.RunRecord{
		RunID:            id,
		Problem:          exp.Problem,
		Seed:             exp.Seed,
		PopulationSize:   exp.PopulationSize,
		Generations:      outcome.Generations,
		MutationRate:     exp.MutationRate,
		EliteCount:       exp.EliteCount,
		Workers:          exp.Workers,
		Selector:         exp.Selector,
		CreatedAtUnix:    started.Unix(),
		ElapsedMillis:    elapsed.Milliseconds(),
		Evaluations:      outcome.Evaluations,
		BestFitness:      outcome.BestFitness,
		BestByGeneration: outcome.BestByGeneration,
		Best:             outcome.BestPayload,
		Notes:            exp.Notes,
	}
	storage.Stamp(&rec)
	if err := store.SaveRun(ctx, rec); err != nil {
		return err
	}
	fmt.Printf("run saved run_id=%s store=%s\n", id, exp.Store.Backend)
	return nil
}

// applyRunFlags overrides experiment fields with flags the user set
// explicitly, so flags win over the config file.
func applyRunFlags(exp *config.Experiment, set map[string]bool, flagValue map[string]any) {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "problem":
			exp.Problem = v.(string)
		case "size":
			exp.Size = v.(int)
		case "target":
			exp.Target = v.(string)
		case "pop":
			exp.PopulationSize = v.(int)
		case "gens":
			exp.Generations = v.(int)
		case "rate":
			exp.MutationRate = v.(float64)
		case "elites":
			exp.EliteCount = v.(int)
		case "workers":
			exp.Workers = v.(int)
		case "seed":
			exp.Seed = v.(int64)
		case "selector":
			exp.Selector = v.(string)
		case "goal":
			exp.FitnessGoal = v.(float64)
		case "stop-at-goal":
			exp.StopAtGoal = v.(bool)
		case "evaluations-limit":
			exp.EvaluationsLimit = v.(int)
		case "store":
			exp.Store.Backend = v.(string)
		case "db-path":
			exp.Store.Path = v.(string)
		case "notes":
			exp.Notes = v.(string)
		}
	}
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "genomic.db", "sqlite database path")
	jsonOut := fs.Bool("json", false, "emit the runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}

	summaries, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if len(summaries) > *limit {
		summaries = summaries[:*limit]
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	for _, s := range summaries {
		fmt.Printf("run_id=%s problem=%s created=%s gens=%s best_fitness=%.6f\n",
			s.RunID,
			s.Problem,
			humanize.Time(time.Unix(s.CreatedAtUnix, 0)),
			humanize.Comma(int64(s.Generations)),
			s.BestFitness,
		)
	}
	return nil
}

func runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "genomic.db", "sqlite database path")
	jsonOut := fs.Bool("json", false, "emit the full run record as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("show requires exactly one run id")
	}
	id := fs.Arg(0)

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}

	rec, ok, err := store.GetRun(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("run %s not found", id)
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	fmt.Printf("run_id=%s problem=%s created=%s elapsed=%s\n",
		rec.RunID,
		rec.Problem,
		humanize.Time(time.Unix(rec.CreatedAtUnix, 0)),
		time.Duration(rec.ElapsedMillis)*time.Millisecond,
	)
	fmt.Printf("seed=%d pop=%d gens=%d rate=%v elites=%d workers=%d selector=%s\n",
		rec.Seed, rec.PopulationSize, rec.Generations, rec.MutationRate, rec.EliteCount, rec.Workers, rec.Selector)
	fmt.Printf("evaluations=%s final_best_fitness=%.6f\n",
		humanize.Comma(int64(rec.Evaluations)), rec.BestFitness)
	for i, best := range rec.BestByGeneration {
		fmt.Printf("generation=%d best_fitness=%.6f\n", i+1, best)
	}
	if len(rec.Best) > 0 {
		fmt.Printf("best=%s\n", rec.Best)
	}
	if rec.Notes != "" {
		fmt.Printf("notes=%s\n", rec.Notes)
	}
	return nil
}

func runDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "genomic.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("delete requires exactly one run id")
	}
	id := fs.Arg(0)

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}

	_, ok, err := store.GetRun(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("run %s not found", id)
	}
	if err := store.DeleteRun(ctx, id); err != nil {
		return err
	}
	fmt.Printf("run deleted run_id=%s\n", id)
	return nil
}

func runProblems(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("problems", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	for _, p := range problems.Describe() {
		fmt.Printf("problem=%s description=%s\n", p.Name, p.Description)
	}
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: genomicctl <run|runs|show|delete|problems> [flags]", msg)
}
