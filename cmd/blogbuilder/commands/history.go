package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/thought2/blog/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int    `short:"n" default:"20" help:"Maximum number of builds to list"`
	Show  string `help:"Print the full manifest of one build as JSON"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return exitWithError(err, root.Verbose)
	}
	if cfg.History.Database == "" {
		return fmt.Errorf("history is not configured; set history.database in %s", root.Config)
	}

	store, err := history.Open(cfg.History.Database)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	if h.Show != "" {
		m, err := store.Get(ctx, h.Show)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}

	records, err := store.List(ctx, h.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No builds recorded")
		return nil
	}

	fmt.Printf("%-36s  %-20s  %-8s  %5s  %6s  %8s\n", "ID", "TIMESTAMP", "STATUS", "PAGES", "ASSETS", "DURATION")
	for _, r := range records {
		fmt.Printf("%-36s  %-20s  %-8s  %5d  %6d  %6dms\n",
			r.ID, r.Timestamp.Format("2006-01-02 15:04:05"), r.Status, r.PageCount, r.AssetCount, r.DurationMS)
	}
	return nil
}
