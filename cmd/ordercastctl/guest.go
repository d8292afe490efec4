package main

import (
	"errors"
	"fmt"

	"github.com/goevery/ordercast/internal/client"
	"github.com/goevery/ordercast/internal/menu"
	"github.com/spf13/cobra"
)

func newMenuCmd(app *app) *cobra.Command {
	var chefId string

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Show a chef's shared menu",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ownChefId, err := app.identity().LoadOrCreate()
			if err != nil {
				return fmt.Errorf("load chef id: %w", err)
			}

			target := chefId
			if client.ResolveMode(ownChefId, chefId) == client.ModeChef {
				target = ownChefId
			}

			guest := client.NewGuestAdapter(app.logger, target, app.dialer(), app.menus())
			snapshot, err := guest.LoadMenu(cmd.Context(), menu.Snapshot{})
			if errors.Is(err, client.ErrMenuNotFound) {
				return fmt.Errorf("chef %s has not shared a menu yet", target)
			}
			if err != nil {
				return fmt.Errorf("load menu: %w", err)
			}

			return renderMenu(cmd.OutOrStdout(), snapshot)
		},
	}

	cmd.Flags().StringVar(&chefId, "chef", "", "chef id to browse, defaults to your own")

	return cmd
}

func newOrderCmd(app *app) *cobra.Command {
	var (
		chefId string
		dish   string
	)

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Order a dish from a chef",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ownChefId, err := app.identity().LoadOrCreate()
			if err != nil {
				return fmt.Errorf("load chef id: %w", err)
			}

			if client.ResolveMode(ownChefId, chefId) != client.ModeGuest {
				return errors.New("cannot order from your own menu")
			}

			guest := client.NewGuestAdapter(app.logger, chefId, app.dialer(), app.menus())
			defer guest.Close()

			_ = guest.Connect(cmd.Context())

			order, err := guest.PlaceOrder(cmd.Context(), dish)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Ordered %s from %s at %s\n", order.Name, chefId, order.Time)
			return nil
		},
	}

	cmd.Flags().StringVar(&chefId, "chef", "", "chef id to order from")
	cmd.Flags().StringVar(&dish, "dish", "", "dish name")
	_ = cmd.MarkFlagRequired("chef")
	_ = cmd.MarkFlagRequired("dish")

	return cmd
}
