package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"geojournal/internal/collection"
	"geojournal/internal/config"
	"geojournal/internal/db"
	"geojournal/internal/journal"
	"geojournal/internal/logging"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	settings *config.Settings
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "geojournal",
	Short:         "Personal geo-journal of places, areas and routes",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			s.Log.Level = logLevel
		}
		l, err := logging.New(os.Stderr, s.Log.Level, s.Log.Format)
		if err != nil {
			return err
		}
		settings, logger = s, l
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to .geojournal.db database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// DiscoverDB finds the SQLite path using priority: env > flag > config > walk-up > XDG fallback
func DiscoverDB() (string, error) {
	// 1. Environment variable
	if envPath := os.Getenv("GEOJOURNAL_DB"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	// 2. CLI flag
	if dbPath != "" {
		if _, err := os.Stat(dbPath); err == nil {
			return dbPath, nil
		}
		return "", fmt.Errorf("database not found at --db path: %s", dbPath)
	}

	// 3. Config file
	if settings != nil && settings.Database.Path != "" {
		if _, err := os.Stat(settings.Database.Path); err == nil {
			return settings.Database.Path, nil
		}
		return "", fmt.Errorf("database not found at configured path: %s", settings.Database.Path)
	}

	// 4. Walk up from CWD
	dir, err := os.Getwd()
	if err == nil {
		for {
			candidate := filepath.Join(dir, ".geojournal.db")
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	// 5. XDG fallback
	if xdgPath := defaultDataPath(); xdgPath != "" {
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", fmt.Errorf("no .geojournal.db found (set GEOJOURNAL_DB, use --db, or run `geojournal migrate` to create one)")
}

// defaultDataPath is where `migrate` creates a journal when nothing else is given
func defaultDataPath() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "geojournal", "geojournal.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "geojournal", "geojournal.db")
}

// OpenDatabase opens the configured store: Postgres by DSN, otherwise the discovered SQLite file
func OpenDatabase(ctx context.Context) (*db.DB, error) {
	if settings != nil && settings.Database.Driver == "postgres" {
		return db.OpenPostgres(ctx, settings.Database.DSN)
	}
	path, err := DiscoverDB()
	if err != nil {
		return nil, err
	}
	return db.OpenDB(path)
}

// OpenJournal opens the store and loads every location into a collection
func OpenJournal(ctx context.Context) (*db.DB, *collection.Collection, error) {
	d, err := OpenDatabase(ctx)
	if err != nil {
		return nil, nil, err
	}
	c := collection.New(d, logger)
	if err := c.Load(ctx); err != nil {
		d.Close()
		return nil, nil, fmt.Errorf("loading journal: %w", err)
	}
	return d, c, nil
}

// ResolveLocation finds a location by full ID, ID prefix, or name search.
func ResolveLocation(aggs []journal.Aggregate, reference string) (journal.Aggregate, error) {
	// 1. Exact ID match
	for _, a := range aggs {
		if a.ID == reference {
			return a, nil
		}
	}

	// 2. ID prefix match (≥6 hex/dash chars)
	if len(reference) >= 6 && isHexDash(reference) {
		prefix := strings.ToLower(reference)
		var matches []journal.Aggregate
		for _, a := range aggs {
			if strings.HasPrefix(strings.ToLower(a.ID), prefix) {
				matches = append(matches, a)
			}
		}
		switch len(matches) {
		case 1:
			return matches[0], nil
		case 0:
			// fall through to name search
		default:
			return journal.Aggregate{}, ambiguous(reference, matches, "Use a full location ID instead.")
		}
	}

	// 3. Name search
	matches := journal.Filter{Keyword: reference}.Apply(aggs)
	var named []journal.Aggregate
	for _, a := range matches {
		if strings.EqualFold(a.Name, reference) {
			named = append(named, a)
		}
	}
	if len(named) == 1 {
		return named[0], nil
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		// fall through to not found
	default:
		return journal.Aggregate{}, ambiguous(reference, matches, "Use a location ID instead.")
	}

	return journal.Aggregate{}, fmt.Errorf("location not found: %s", reference)
}

func ambiguous(reference string, matches []journal.Aggregate, hint string) error {
	limit := 10
	if len(matches) < limit {
		limit = len(matches)
	}
	lines := make([]string, limit)
	for i := 0; i < limit; i++ {
		lines[i] = fmt.Sprintf("  %s %s", truncID(matches[i].ID), matches[i].Name)
	}
	return fmt.Errorf("ambiguous reference '%s'. %d matches:\n%s\n%s",
		reference, len(matches), strings.Join(lines, "\n"), hint)
}

func isHexDash(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') || c == '-') {
			return false
		}
	}
	return true
}
