package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/vmunix/seasonarr/internal/catalog"
	"github.com/vmunix/seasonarr/internal/client"
	"github.com/vmunix/seasonarr/internal/editor"
	"github.com/vmunix/seasonarr/internal/migrations"
	"github.com/vmunix/seasonarr/internal/prefs"
)

const defaultServerURL = "http://localhost:8585"

// app holds the persistent flag values shared by every command.
type app struct {
	serverURL   string
	jsonOutput  bool
	statePath   string
	seriesID    string
	idleTimeout time.Duration
	verbose     bool
	noSave      bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "seasonarr",
		Short: "Catalog editor for seasonarr",
		Long: `seasonarr - catalog editor for seasonarr

Edit series, seasons and episodes of the catalog served by seasonarrd,
and import YouTube playlists as seasons with live progress.

Changes are saved to the daemon after each command unless --no-save
is given. Run 'seasonarrd' to start the server daemon.`,
		SilenceUsage: true,
		Version:      version,
	}
	root.SetVersionTemplate("seasonarr {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&a.serverURL, "server", defaultServerURL, "Server URL")
	pf.BoolVar(&a.jsonOutput, "json", false, "Output as JSON")
	pf.StringVar(&a.statePath, "state", defaultStatePath(), "Editor state database (empty keeps state in memory)")
	pf.StringVarP(&a.seriesID, "series", "s", "", "Series id or title to work on (default: last selected)")
	pf.DurationVar(&a.idleTimeout, "idle-timeout", 2*time.Minute, "Abort an import when the stream stalls this long (0 disables)")
	pf.BoolVar(&a.verbose, "verbose", false, "Log debug output to stderr")
	pf.BoolVar(&a.noSave, "no-save", false, "Do not save changes to the server")

	root.AddCommand(
		a.seriesCmd(),
		a.seasonCmd(),
		a.episodeCmd(),
		a.importCmd(),
		a.cleanTitleCmd(),
		a.statusCmd(),
		a.eventsCmd(),
	)
	return root
}

// defaultStatePath follows the XDG state directory convention.
func defaultStatePath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "seasonarr", "state.db")
}

// session is one command's view of the editor.
type session struct {
	*editor.Editor
	client *client.Client
	out    io.Writer
	errOut io.Writer
	closer io.Closer
}

func (s *session) Close() {
	if s.closer != nil {
		_ = s.closer.Close()
	}
}

// noticePrinter writes editor notices to stderr. Muted notices are dropped
// unless they are errors.
type noticePrinter struct {
	w     io.Writer
	muted atomic.Bool
}

func (p *noticePrinter) Notify(level editor.Level, msg string) {
	if p.muted.Load() && level != editor.LevelError {
		return
	}
	fmt.Fprintf(p.w, "[%s] %s\n", level, msg)
}

func (a *app) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func openState(ctx context.Context, path string) (prefs.Store, io.Closer, error) {
	if path == "" {
		return prefs.NewMemoryStore(), nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create state dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open state: %w", err)
	}
	if err := migrations.Apply(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate state: %w", err)
	}
	return prefs.NewSQLiteStore(db), db, nil
}

// open builds the editor for cmd. With load set the document is fetched and
// the saved selection restored.
func (a *app) open(cmd *cobra.Command, load bool) (*session, error) {
	ctx := cmd.Context()
	errOut := cmd.ErrOrStderr()
	log := a.logger(errOut)

	store, closer, err := openState(ctx, a.statePath)
	if err != nil {
		return nil, err
	}

	c := client.New(a.serverURL)
	notices := &noticePrinter{w: errOut}
	ed := editor.New(c, editor.Options{
		Prefs:       store,
		Notifier:    notices,
		Logger:      log,
		IdleTimeout: a.idleTimeout,
	})
	s := &session{Editor: ed, client: c, out: cmd.OutOrStdout(), errOut: errOut, closer: closer}

	if load {
		notices.muted.Store(!a.verbose)
		err := ed.Load(ctx)
		notices.muted.Store(false)
		if err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// target resolves the series a command works on: --series, else the
// restored selection.
func (a *app) target(ctx context.Context, s *session) (catalog.Series, error) {
	if a.seriesID != "" {
		return s.Select(ctx, a.seriesID)
	}
	series, ok := s.Current()
	if !ok {
		return catalog.Series{}, fmt.Errorf("%w: use --series or 'seasonarr series select'", editor.ErrNoSelection)
	}
	return series, nil
}

// commit is the explicit save that ends a command's edit session. It does
// nothing when the command left the document clean or --no-save is set.
func (a *app) commit(ctx context.Context, s *session) error {
	if a.noSave || !s.Dirty() {
		return nil
	}
	return s.Save(ctx)
}
