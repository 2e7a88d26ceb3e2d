package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fleet_tracker/pkg/client"
)

var (
	// Global flags
	serverURL   string
	sessionPath string

	api *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "fleetctl",
	Short: "Command line client for the fleet tracker API",
	Long: `fleetctl talks to a fleet tracker server.

Log in once with "fleetctl login"; tokens are stored in the session file and
refreshed automatically when the access token expires.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		tokens, err := loadSession(sessionPath)
		if err != nil {
			return err
		}
		api = client.New(serverURL,
			client.WithTokens(tokens),
			client.WithTokenHook(func(t client.Tokens) {
				if err := saveSession(sessionPath, t); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not save session: %v\n", err)
				}
			}),
		)
		return nil
	},
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "fleetctl", "session.json")
}

func init() {
	server := os.Getenv("FLEET_SERVER")
	if server == "" {
		server = "http://localhost:3000"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", server, "API server address (env FLEET_SERVER)")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", defaultSessionPath(), "file storing the login tokens")

	rootCmd.AddCommand(loginCmd, logoutCmd, meCmd, vehiclesCmd, reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
