package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goevery/ordercast/internal/client"
	"github.com/goevery/ordercast/internal/menu"
	"github.com/spf13/cobra"
)

func newChefCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chef",
		Short: "Share your menu and receive orders",
	}

	cmd.AddCommand(
		newChefListenCmd(app),
		newChefShareCmd(app),
	)

	return cmd
}

func newChefAdapter(cmd *cobra.Command, app *app) (*client.ChefAdapter, error) {
	chefId, err := app.identity().LoadOrCreate()
	if err != nil {
		return nil, fmt.Errorf("load chef id: %w", err)
	}

	notifier := client.MultiNotifier{
		client.NewTerminalNotifier(cmd.OutOrStdout()),
		client.NewLogNotifier(app.logger),
	}

	return client.NewChefAdapter(app.logger, chefId, app.dialer(), app.menus(), notifier), nil
}

func newChefListenCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Wait for orders until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			chef, err := newChefAdapter(cmd, app)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Listening for orders as %s\n", chef.ChefId())

			err = chef.Run(ctx)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Received %d orders\n", len(chef.PendingOrders()))
			return nil
		},
	}
}

func newChefShareCmd(app *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share a menu snapshot read from a JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read menu file: %w", err)
			}

			var snapshot menu.Snapshot
			err = json.Unmarshal(data, &snapshot)
			if err != nil {
				return fmt.Errorf("decode menu file: %w", err)
			}

			chef, err := newChefAdapter(cmd, app)
			if err != nil {
				return err
			}

			err = chef.ShareMenu(cmd.Context(), snapshot)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Shared %d recipes and %d restaurants as %s\n",
				len(snapshot.SavedRecipes), len(snapshot.Restaurants), chef.ChefId())
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "menu snapshot JSON file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
