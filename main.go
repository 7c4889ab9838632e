// Command spellcrawl runs the dungeon crawler in a terminal and offers a few
// maintenance commands for levels and save slots.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"spellcrawl/internal/catalog"
	"spellcrawl/internal/config"
	"spellcrawl/internal/game"
	"spellcrawl/internal/generate"
	"spellcrawl/internal/logger"
	"spellcrawl/internal/save"
	"spellcrawl/internal/seed"
	"spellcrawl/internal/telemetry"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
)

const usage = `usage: spellcrawl [flags] [command]

commands:
  play            run the game (default)
  generate        print a level and its seed
  saves           list save slots
  runs            list finished runs, most recent first
  delete <slot>   remove a save slot

flags:
`

// options are the parsed command line.
type options struct {
	command    string
	args       []string
	configPath string
	level      int
	slot       string
	load       string // slot to resume
	recordPath string // seed file to replay
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("spellcrawl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "spellcrawl.yaml", "path to the YAML config file")
	fs.IntVar(&opts.level, "level", 0, "starting level (0 uses the config value)")
	fs.StringVar(&opts.slot, "slot", "default", "save slot written by the save key")
	fs.StringVar(&opts.load, "load", "", "resume from a save slot")
	fs.StringVar(&opts.recordPath, "record", "", "replay a level from a seed file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.command = "play"
	if fs.NArg() > 0 {
		opts.command = fs.Arg(0)
		opts.args = fs.Args()[1:]
	}
	switch opts.command {
	case "play", "generate", "saves", "runs":
	case "delete":
		if len(opts.args) != 1 {
			return nil, errors.New("delete needs exactly one slot name")
		}
	default:
		return nil, fmt.Errorf("unknown command %q", opts.command)
	}
	if opts.level < 0 {
		return nil, fmt.Errorf("level must be positive, got %d", opts.level)
	}
	if opts.load != "" && opts.recordPath != "" {
		return nil, errors.New("-load and -record are mutually exclusive")
	}
	return opts, nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.level > 0 {
		cfg.StartLevel = opts.level
	}

	// The terminal belongs to the game while playing.
	console := io.Writer(os.Stderr)
	if opts.command == "play" {
		console = io.Discard
	}
	lg, closeLog := logger.New(cfg.Logging, console)
	defer closeLog()

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		lg.Warn("telemetry setup failed, continuing without tracing", "error", err)
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				lg.Error("telemetry shutdown", "error", err)
			}
		}()
	}

	switch opts.command {
	case "generate":
		return runGenerate(ctx, cfg, opts, lg, os.Stdout)
	case "saves":
		return runSaves(ctx, cfg, os.Stdout)
	case "runs":
		return runRuns(ctx, cfg, os.Stdout)
	case "delete":
		return runDelete(ctx, cfg, opts.args[0])
	default:
		return runPlay(ctx, cfg, opts, lg)
	}
}

func runPlay(ctx context.Context, cfg *config.Config, opts *options, lg *slog.Logger) error {
	cat, err := catalog.Default()
	if err != nil {
		return err
	}
	store, err := save.Open(cfg.SaveDB)
	if err != nil {
		return err
	}
	defer store.Close()

	var rec *save.Record
	switch {
	case opts.load != "":
		if rec, err = store.Load(ctx, opts.load); err != nil {
			return fmt.Errorf("load slot %q: %w", opts.load, err)
		}
	case opts.recordPath != "":
		if rec, err = readRecord(opts.recordPath); err != nil {
			return err
		}
	}

	session := game.NewSession(cfg, cat, lg)
	if err := session.LoadLevel(ctx, cfg.StartLevel, rec); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	slot := opts.slot
	if opts.load != "" {
		slot = opts.load
	}
	err = game.NewGame(screen, session, store, slot).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runGenerate builds one level, fresh or replayed from -record, and prints
// the grid followed by the layout seed.
func runGenerate(ctx context.Context, cfg *config.Config, opts *options, lg *slog.Logger, out io.Writer) error {
	cat, err := catalog.Default()
	if err != nil {
		return err
	}
	gen := generate.New(cat,
		generate.WithChances(cfg.Generation),
		generate.WithLogger(lg),
	)

	level := cfg.StartLevel
	seq := seed.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	if opts.recordPath != "" {
		rec, err := readRecord(opts.recordPath)
		if err != nil {
			return err
		}
		level = rec.Player.Level
		seq = seed.Replay(rec.Generation)
	}

	res, err := gen.Generate(ctx, cat.FormsForLevel(level), seq)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "level %d (form %s)\n", level, res.Form)
	fmt.Fprint(out, res.Grid.String())
	fmt.Fprintf(out, "\nseed: %s\n", res.Seed)
	return nil
}

func runSaves(ctx context.Context, cfg *config.Config, out io.Writer) error {
	store, err := save.Open(cfg.SaveDB)
	if err != nil {
		return err
	}
	defer store.Close()

	slots, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		fmt.Fprintln(out, "no saves")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tLEVEL\tSAVED")
	for _, s := range slots {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", s.Name, s.Level, s.SavedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func runRuns(ctx context.Context, cfg *config.Config, out io.Writer) error {
	store, err := save.Open(cfg.SaveDB)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(ctx, 20)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENDED\tLEVEL\tTICKS\tKILLS\tGOLD\tDEALT\tTAKEN")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.EndedAt.Local().Format(time.DateTime), r.Level, r.Ticks, r.TotalKills(), r.Gold, r.DamageDealt, r.DamageTaken)
	}
	return tw.Flush()
}

func runDelete(ctx context.Context, cfg *config.Config, slot string) error {
	store, err := save.Open(cfg.SaveDB)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Delete(ctx, slot); err != nil {
		return fmt.Errorf("delete slot %q: %w", slot, err)
	}
	return nil
}

func readRecord(path string) (*save.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	rec, err := save.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("read record %s: %w", path, err)
	}
	return rec, nil
}
