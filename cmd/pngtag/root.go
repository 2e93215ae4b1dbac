package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lewtec/pngtag/internal/domain"
	"github.com/lewtec/pngtag/internal/metaedit"
	"github.com/lewtec/pngtag/internal/repository"
	"github.com/lewtec/pngtag/tagging"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pngtag",
	Short: "Tag PNG images with text metadata",
	Long: strings.TrimSpace(`
Store key/value tags inside PNG files as tEXt chunks. The image itself is the
only place the tags live, the pixels are never changed and every write
replaces the file atomically.
    `),
	SilenceErrors: true,
	SilenceUsage:  true,
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatalf("Error: %s", tagging.Describe(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default <user config dir>/pngtag/config.yaml)")
	rootCmd.PersistentFlags().StringP("journal", "j", "", "Edit journal database (overrides the config)")
	rootCmd.PersistentFlags().Bool("no-journal", false, "Do not record edits in the journal")
}

// app is the state shared by the subcommands of one invocation
type app struct {
	configPath string
	config     *tagging.Config
	db         *sql.DB
}

func loadApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		var err error
		configPath, err = tagging.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}
	config, err := tagging.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if journal, _ := cmd.Flags().GetString("journal"); journal != "" {
		config.Journal = journal
	}
	if noJournal, _ := cmd.Flags().GetBool("no-journal"); noJournal {
		config.Journal = ""
	}
	return &app{configPath: configPath, config: config}, nil
}

// openJournal returns nil without error when journaling is disabled
func (a *app) openJournal(ctx context.Context) (domain.JournalRepository, error) {
	if a.config.Journal == "" {
		return nil, nil
	}
	db, err := tagging.GetDatabase(a.config.Journal)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if err := tagging.PrepareDatabase(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare journal: %w", err)
	}
	a.db = db
	return repository.NewJournalRepository(db), nil
}

// tagger builds a Tagger. A journal that cannot be opened is reported and skipped.
func (a *app) tagger(ctx context.Context, policy metaedit.Policy) *tagging.Tagger {
	journal, err := a.openJournal(ctx)
	if err != nil {
		log.Printf("warning: continuing without journal: %v", err)
	}
	return &tagging.Tagger{Policy: policy, Journal: journal}
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
