// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/lmforge/confgen/internal/config"
	"github.com/lmforge/confgen/internal/history"
)

// HandleHistory lists recent generation runs from the local ledger.
func HandleHistory(args *ArgParser) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	if !settings.History.Enabled {
		fmt.Println("run ledger is disabled (history.enabled = false)")
		return nil
	}

	limit := 20
	if n, err := args.IntFlag("limit"); err != nil {
		return err
	} else if n != nil {
		limit = *n
	}

	path, err := settings.HistoryPath()
	if err != nil {
		return err
	}
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tMODEL\tQUANT\tTEMPLATE\tOUTPUT\tFILES")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			rec.Timestamp.Local().Format(time.DateTime),
			rec.ModelType, rec.Quantization, rec.ConvTemplate,
			rec.OutputDir, rec.ArtifactCount)
	}
	return w.Flush()
}
