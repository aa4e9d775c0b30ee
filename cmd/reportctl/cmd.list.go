package main

import (
	"fmt"
	"text/tabwriter"

	"inventory_commerce/internal/api/report/catalog"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Liệt kê các báo cáo trong danh mục",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, catalog.Default(), category)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "chỉ liệt kê báo cáo thuộc nhóm này (sales, purchases, inventory, customers)")
	return cmd
}

func runList(cmd *cobra.Command, cat *catalog.Catalog, category string) error {
	defs := cat.List()
	if category != "" {
		defs = cat.ByCategory(category)
		if len(defs) == 0 {
			return fmt.Errorf("unknown category %q", category)
		}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tID\tNAME")
	for _, d := range defs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Category, d.ID, d.Name)
	}
	return w.Flush()
}
