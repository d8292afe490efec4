package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIdCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "id",
		Short: "Print your chef id, creating it on first use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			chefId, err := app.identity().LoadOrCreate()
			if err != nil {
				return fmt.Errorf("load chef id: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), chefId)
			return err
		},
	}
}
