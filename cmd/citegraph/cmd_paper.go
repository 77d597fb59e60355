package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/persistorai/citegraph/internal/config"
	"github.com/persistorai/citegraph/internal/models"
	"github.com/persistorai/citegraph/internal/service"
)

func newPaperCmd() *cobra.Command {
	var fields string

	cmd := &cobra.Command{
		Use:   "paper <id>",
		Short: "Fetch a single paper as the crawler sees it",
		Long: `Fetch one paper and print the record the crawler would store for it:
title, reference IDs, citation IDs and, with the authors field set, authors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("fields") {
				cfg.Fields = config.SplitList(fields)
			}

			fetcher := service.NewPaperFetcher(apiClient.Papers, cfg.FieldSet(), logger)
			rec, err := fetcher.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return output(cmd.OutOrStdout(), flagFmt, rec, rec.ID, func(w io.Writer) {
				paperTable(w, rec)
			})
		},
	}

	cmd.Flags().StringVar(&fields, "fields", "", "Comma-separated paper fields to request")
	return cmd
}

func paperTable(w io.Writer, rec *models.NodeRecord) {
	formatTable(w,
		[]string{"ID", "TITLE", "REFERENCES", "CITATIONS", "AUTHORS"},
		[][]string{{
			rec.ID,
			truncate(rec.Title, 60),
			strconv.Itoa(len(rec.References)),
			strconv.Itoa(len(rec.Citations)),
			strconv.Itoa(len(rec.Authors)),
		}},
	)
	if len(rec.Authors) > 0 {
		fmt.Fprintln(w)
		rows := make([][]string, 0, len(rec.Authors))
		for _, a := range rec.Authors {
			rows = append(rows, []string{a.ID, a.Name})
		}
		formatTable(w, []string{"AUTHOR ID", "NAME"}, rows)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
