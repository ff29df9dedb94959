package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/flashdeck/internal/cardgen"
	"github.com/abhisek/flashdeck/internal/config"
	"github.com/abhisek/flashdeck/internal/decks"
	"github.com/abhisek/flashdeck/internal/llm"
	"github.com/abhisek/flashdeck/internal/logging"
	"github.com/abhisek/flashdeck/internal/mocktest"
	"github.com/abhisek/flashdeck/internal/store"
	"github.com/abhisek/flashdeck/internal/study"
)

var rootCmd = &cobra.Command{
	Use:   "flashdeck",
	Short: "Flashcards with SM-2 spaced repetition",
	Long:  "Flashdeck keeps decks of flashcards in a local SQLite database and schedules reviews with the SM-2 algorithm.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, appStart{})
	},
	SilenceUsage: true,
}

// flags are bound into viper so that FLASHDECK_* variables and the config
// file can supply the same settings.
var flags = viper.New()

// ExecuteContext runs the root command.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/flashdeck/config.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides FLASHDECK_DB)")
	pf.String("user", "", "User id that scopes all data")
	pf.String("timezone", "", "IANA timezone used for review days (default local)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")

	_ = flags.BindPFlag("db", pf.Lookup("db"))
	_ = flags.BindPFlag("user", pf.Lookup("user"))
	_ = flags.BindPFlag("timezone", pf.Lookup("timezone"))
	_ = flags.BindPFlag("log.level", pf.Lookup("log-level"))

	rootCmd.AddCommand(deckCmd)
	rootCmd.AddCommand(cardCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(studyCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// env holds the services a command works with.
type env struct {
	cfg    *config.Config
	log    *logrus.Logger
	dbPath string
	store  *store.Store
	decks  *decks.Service
	study  *study.Service

	closers []io.Closer
}

// openEnv loads configuration, opens the database and builds the services.
// Logs go to logOut.
func openEnv(cmd *cobra.Command, logOut io.Writer) (*env, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(flags, cfgFile)
	if err != nil {
		return nil, err
	}

	log, err := logging.NewLogger(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.WithField("db", dbPath).Debug("database opened")

	e := &env{
		cfg:     cfg,
		log:     log,
		dbPath:  dbPath,
		store:   st,
		decks:   decks.NewService(st.DeckRepo(), st.CardRepo(), cfg.User, log),
		closers: []io.Closer{st},
	}
	e.study = study.NewService(study.Repos{
		Decks:    st.DeckRepo(),
		Cards:    st.CardRepo(),
		Sessions: st.SessionRepo(),
		Reviews:  st.ReviewRepo(),
	}, study.Options{
		UserID:   cfg.User,
		DueLimit: cfg.Due.Limit,
		Location: loc,
	}, log)
	return e, nil
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			e.log.WithError(err).Warn("close failed")
		}
	}
}

// generator builds a card generator on the configured LLM provider. It
// returns nil when no provider is configured or it cannot be created.
func (e *env) generator(cmd *cobra.Command) *cardgen.Generator {
	cfg, ok := e.cfg.Provider()
	if !ok {
		e.log.Debug("no LLM provider configured")
		return nil
	}
	provider, err := llm.NewProvider(cmd.Context(), cfg, e.store.EventRepo(), e.log)
	if err != nil {
		e.log.WithError(err).Warn("LLM provider unavailable")
		return nil
	}
	return cardgen.New(provider, cardgen.DefaultConfig(), e.log)
}

// tests builds the mock test service. Questions are converted to multiple
// choice when an LLM provider is available.
func (e *env) tests(cmd *cobra.Command) *mocktest.Service {
	var conv mocktest.Converter
	if g := e.generator(cmd); g != nil {
		conv = g
	}
	return mocktest.NewService(e.store.DeckRepo(), e.store.CardRepo(), e.study, conv, e.cfg.User, e.log)
}

// resolveDBPath returns the configured database path, falling back to the
// default XDG data path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// logToFile redirects logging to a file next to the database so that it
// does not draw over the terminal UI.
func (e *env) logToFile() error {
	f, err := os.OpenFile(filepath.Join(filepath.Dir(e.dbPath), "flashdeck.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	e.log.SetOutput(f)
	e.closers = append([]io.Closer{f}, e.closers...)
	return nil
}
