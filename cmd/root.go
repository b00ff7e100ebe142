package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "nebuloviz",
		Short:         "NebuloViz: sales analytics dashboard for the terminal",
		Long:          "nebuloviz renders the NebuloViz sales dashboard (customers, sales trend, forecast, segments, heatmap and paged orders) against the sales analytics API, and manages the session credential it authenticates with.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		app.close()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newSessionCmd(app),
		newDashboardCmd(app),
		newSnapshotCmd(app),
		newMockAPICmd(app),
	)

	return rootCmd
}
