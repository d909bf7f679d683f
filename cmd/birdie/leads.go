package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/oddshoes/birdie/internal/store"
)

// printLeads writes the lead journal as a table, oldest first.
func printLeads(w io.Writer, leads store.Store) error {
	all, err := leads.ListLeads()
	if err != nil {
		return fmt.Errorf("listing leads: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CAPTURED\tEMAIL\tSOURCE\tSESSION")
	for _, l := range all {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.CapturedAt.UTC().Format(time.RFC3339), l.Email, l.Source, l.SessionID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d lead(s)\n", len(all))
	return nil
}
