package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"findata-api/internal/storage"
)

// Show prints recent meta series.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	b, closeBackends, err := a.openBackends(ctx)
	if err != nil {
		return err
	}
	defer closeBackends()

	series, err := b.stores.Series.ListSeries(ctx, storage.SeriesFilter{
		IncludeInactive: opts.IncludeInactive,
		Page:            storage.Page{Limit: opts.Limit},
	})
	if err != nil {
		return err
	}
	if len(series) == 0 {
		fmt.Fprintln(os.Stdout, "no series found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tName\tTicker\tDerived\tActive\tVersion\tUpdated (UTC)")

	for _, s := range series {
		ticker := ""
		if s.Ticker != nil {
			ticker = *s.Ticker
		}
		fmt.Fprintf(
			writer,
			"%d\t%s\t%s\t%t\t%t\t%d\t%s\n",
			s.SeriesID,
			s.SeriesName,
			ticker,
			s.IsDerived,
			s.IsActive,
			s.VersionNumber,
			s.UpdatedAt.UTC().Format(time.RFC3339),
		)
	}

	writer.Flush()
	return nil
}
