package cmd

import (
	"fmt"
	"os"

	ET "github.com/IBM/fp-go/v2/either"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/grid"
)

var query grid.Query

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&query.Text, "filter", "", "Show rows containing this text in any column")
	cmd.Flags().StringVar(&query.Column, "column", "", "Column --match applies to")
	cmd.Flags().StringVar(&query.ColumnValue, "match", "", "Show rows whose --column contains this text")
	cmd.Flags().StringVar(&query.SortBy, "sort", "", "Sort by column")
	cmd.Flags().BoolVar(&query.Desc, "desc", false, "Sort descending")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the dispatch requests of the organization group",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		if err := open(ctx); err != nil {
			return err
		}
		if query.PageSize == 0 {
			query.PageSize = cfg.UI.PageSize
		}
		page, err := services.Grid.Apply(query)
		if err != nil {
			return err
		}
		services.Grid.Render(cmd.OutOrStdout(), page)
		logger.Infow("Listed dispatch requests", "rows", page.Total, "page", page.Page)
		return nil
	},
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered and sorted list as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		if err := open(ctx); err != nil {
			return err
		}
		page, err := services.Grid.Apply(grid.Query{
			Text:        query.Text,
			Column:      query.Column,
			ColumnValue: query.ColumnValue,
			SortBy:      query.SortBy,
			Desc:        query.Desc,
		})
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if exportOut != "" && exportOut != "-" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOut, err)
			}
			defer f.Close()
			w = f
		}
		if err := grid.WriteCSV(w, page.Rows); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		logger.Infow("Exported dispatch requests", "rows", len(page.Rows), "out", exportOut)
		return nil
	},
}

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List the organization groups of the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		groups, err := ET.UnwrapError(services.Groups.ListGroups(ctx)())
		if err != nil {
			return fmt.Errorf("list groups: %w", err)
		}
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"identifier", "name", "read", "write"})
		table.SetAutoFormatHeaders(false)
		for _, g := range groups {
			table.Append([]string{g.Identifier, g.Name, yesNo(g.MayRead()), yesNo(g.MayWrite())})
		}
		table.Render()
		return nil
	},
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	addQueryFlags(listCmd)
	listCmd.Flags().IntVar(&query.Page, "page", 1, "Page to show")
	listCmd.Flags().IntVar(&query.PageSize, "page-size", 0, "Rows per page (default ui.page_size)")

	addQueryFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "-", "CSV file to write, - for stdout")
}
