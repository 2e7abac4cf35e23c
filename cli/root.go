package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hotelbook/app"
	"hotelbook/config"
	"hotelbook/services/api"
	"hotelbook/services/navigation"
	"hotelbook/utils"

	"github.com/spf13/cobra"
)

var (
	jsonOutput bool

	// application is built once per invocation by the root command.
	application *app.App
	newApp      = func() (*app.App, error) {
		config.LoadConfig()
		return app.New(config.AppConfig, utils.GetLogger())
	}
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hotelbook",
		Short: "hotelbook - client for the hotel booking service",
		Long: `hotelbook logs you in to the hotel booking service, searches room
availability, books rooms and pays for bookings.

Run "hotelbook serve" for the local web shell.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadApp,
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(roomsCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(bookCmd())
	rootCmd.AddCommand(bookingCmd())
	rootCmd.AddCommand(profileCmd())
	rootCmd.AddCommand(payCmd())
	rootCmd.AddCommand(adminCmd())
	rootCmd.AddCommand(serveCmd())
	return rootCmd
}

func loadApp(cmd *cobra.Command, args []string) error {
	if application != nil {
		return nil
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	application = a
	return nil
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd := newRootCmd()
	rootCmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", api.ErrorMessage(err))
		return err
	}
	return nil
}

// navigator starts a history at path, applying the route guards. It fails
// with a login hint when the guard redirects.
func navigator(path string) (*navigation.Navigator, error) {
	nav := navigation.NewNavigator(navigation.NewRouter(application.Oracle))
	loc, err := nav.Push(navigation.Location{Path: path})
	if err != nil {
		return nil, err
	}
	if loc.Path == navigation.LoginPath {
		if application.Oracle.IsAuthenticated() {
			return nil, fmt.Errorf("your account cannot open %s", path)
		}
		return nil, fmt.Errorf("please log in first (hotelbook login), %s requires it", path)
	}
	return nav, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
