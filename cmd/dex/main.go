package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/dex/internal/catalog"
	"github.com/pders01/dex/internal/config"
	"github.com/pders01/dex/internal/debuglog"
	"github.com/pders01/dex/internal/media"
	"github.com/pders01/dex/internal/nav"
	"github.com/pders01/dex/internal/pokeapi"
	"github.com/pders01/dex/internal/search"
	"github.com/pders01/dex/internal/storage"
	"github.com/pders01/dex/internal/tui"
	"github.com/pders01/dex/internal/validation"
)

var Version = "dev"

var (
	configPath string
	dbPath     string
	endpoint   string
	logLevel   string
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "dex [route]",
	Short: "A terminal Pokédex",
	Long: `dex browses the Pokémon catalog of a PokeAPI GraphQL endpoint.

Without arguments it opens the interactive browser. A route such as
"/list?page=2" or "/pokemon/25" starts on that screen instead.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "dex %s\n", Version)
		fmt.Fprintln(out, "Pokédex browser")
		fmt.Fprintln(out, "github.com/pders01/dex")
	},
}

var generateConfigCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.GenerateDefaultConfig(path); err != nil {
			return fmt.Errorf("generating config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default ~/.config/dex/config.toml)")
	pf.StringVar(&dbPath, "db", "", "cache database path")
	pf.StringVar(&endpoint, "endpoint", "", "GraphQL endpoint")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error, off")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "skip the startup banner")

	rootCmd.AddCommand(versionCmd, generateConfigCmd, listCmd, showCmd, indexCmd, searchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env holds everything a command needs, opened from the merged config.
type env struct {
	cfg      *config.Config
	client   *pokeapi.Client
	store    *storage.Store
	svc      *catalog.Service
	searcher search.Searcher
	closers  []io.Closer
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if endpoint != "" {
		cfg.API.Endpoint = endpoint
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

func openEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	paths := validation.NewPermissivePathValidator()

	level := debuglog.ParseLogLevel(cfg.Log.Level)
	logFile := cfg.Log.File
	if level != debuglog.LevelOff && logFile != "" {
		if logFile, err = paths.File(logFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: invalid log file, using default: %v\n", err)
			logFile = ""
		}
	}
	if err := debuglog.Setup(level, logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	storePath, err := paths.File(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}

	e := &env{cfg: cfg}

	e.client, err = pokeapi.NewClient(cfg.API)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, e.client)

	e.store, err = storage.NewStore(storePath, cfg.Database.Timeout)
	if err != nil {
		e.close()
		return nil, err
	}
	e.closers = append(e.closers, e.store)

	if cfg.Cache.Enabled && cfg.Cache.TTL > 0 {
		if n, pruneErr := e.store.PruneLists(time.Now().Add(-cfg.Cache.TTL)); pruneErr != nil {
			debuglog.Warnf("pruning cached lists: %v", pruneErr)
		} else if n > 0 {
			debuglog.Debugf("pruned %d stale cached lists", n)
		}
	}

	e.svc = catalog.NewService(e.client, e.store, cfg.Cache)
	e.searcher = openSearcher(e.store, cfg.Database.SearchIndex)
	if l, ok := e.searcher.(catalog.UpdateListener); ok {
		e.svc.AddListener(l)
	}
	if c, ok := e.searcher.(io.Closer); ok {
		e.closers = append(e.closers, c)
	}

	debuglog.WithFields(map[string]interface{}{
		"endpoint": e.client.Endpoint(),
		"db":       storePath,
	}).Infof("dex %s starting", Version)
	return e, nil
}

// openSearcher prefers the bleve index and falls back to scanning the store.
func openSearcher(store *storage.Store, indexPath string) search.Searcher {
	if indexPath != "" {
		dir, err := validation.NewPermissivePathValidator().Clean(indexPath)
		if err == nil {
			s, openErr := search.NewBleveEngine(store, dir)
			if openErr == nil {
				return s
			}
			err = openErr
		}
		debuglog.Warnf("search index unavailable, using scan search: %v", err)
	}
	return search.NewEngine(store)
}

// close releases resources in reverse order of opening.
func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			debuglog.Warnf("closing: %v", err)
		}
	}
	e.closers = nil
	_ = debuglog.Close()
}

func startRoute(e *env, args []string) (nav.Route, string) {
	if len(args) > 0 {
		return nav.Parse(args[0]), ""
	}
	if !e.cfg.UI.RestoreSession {
		return nav.Home(), ""
	}
	sess, err := e.store.LoadSession()
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			debuglog.Warnf("loading session: %v", err)
		}
		return nav.Home(), ""
	}
	return nav.Parse(sess.Route), sess.Search
}

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	start, term := startRoute(e, args)

	if !quiet {
		tui.ShowBanner(Version)
	}

	app := tui.NewApp(tui.Deps{
		Config:   e.cfg,
		Fetcher:  e.svc,
		Store:    e.store,
		Searcher: e.searcher,
		Launcher: media.NewLauncher(e.cfg),
		Clock:    clock.New(),
		Search:   term,
	}, start)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	app.SetSender(p.Send)

	if _, err := p.Run(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
