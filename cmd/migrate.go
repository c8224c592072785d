package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"geojournal/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the journal tables, and the SQLite file if needed",
	Long: `Creates any missing tables. With the sqlite driver and no existing database,
a new file is created at --db, the configured path, or the XDG data dir.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var d *db.DB
		var err error
		if settings.Database.Driver == "postgres" {
			d, err = db.OpenPostgres(ctx, settings.Database.DSN)
		} else {
			d, err = openOrCreateSQLite()
		}
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.Migrate(ctx); err != nil {
			return err
		}
		if d.Dialect() == db.DialectPostgres {
			fmt.Println("[migrate] postgres ready")
		} else {
			fmt.Printf("[migrate] sqlite %s ready\n", d.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func openOrCreateSQLite() (*db.DB, error) {
	if path, err := DiscoverDB(); err == nil {
		return db.OpenDB(path)
	}
	path := dbPath
	if path == "" {
		path = settings.Database.Path
	}
	if path == "" {
		path = defaultDataPath()
	}
	if path == "" {
		return nil, fmt.Errorf("no database path: use --db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	return db.OpenDB(path)
}
