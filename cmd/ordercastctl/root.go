package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cfg := newConfig()
	app := &app{}

	rootCmd := &cobra.Command{
		Use:           "ordercastctl",
		Short:         "Share your menu and take orders from friends",
		Long:          "ordercastctl lets a chef share a menu snapshot and receive orders in real time, and lets guests browse that menu and place orders.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			wired, err := wireApp(cfg)
			if err != nil {
				return err
			}
			*app = *wired

			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("server", defaultServer, "ordercast server url")
	flags.String("identity", "", "path of the chef identity file")
	flags.BoolP("verbose", "v", false, "log debug output")
	_ = cfg.BindPFlag(serverKey, flags.Lookup("server"))
	_ = cfg.BindPFlag(identityPathKey, flags.Lookup("identity"))
	_ = cfg.BindPFlag(verboseKey, flags.Lookup("verbose"))

	rootCmd.AddCommand(
		newIdCmd(app),
		newChefCmd(app),
		newMenuCmd(app),
		newOrderCmd(app),
	)

	return rootCmd
}
