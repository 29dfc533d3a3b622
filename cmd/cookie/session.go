package main

import (
	"fmt"
	"strings"

	"github.com/mmcdole/cookie/internal/api"
	"github.com/mmcdole/cookie/internal/config"
	"github.com/mmcdole/cookie/internal/domain"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token.",
	Long: `Sign in with email and password, or store an access token obtained elsewhere.
The server URL is saved with --server and kept for later runs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, _ := cmd.Flags().GetString("server")
		token, _ := cmd.Flags().GetString("token")

		if server = strings.TrimSpace(server); server != "" {
			cli.cfg.Server.URL = server
			if err := cli.mgr.Save(cli.cfg); err != nil {
				return err
			}
		}
		if cli.cfg.Server.URL == "" {
			return fmt.Errorf("%w: pass --server URL", domain.ErrNotConfigured)
		}
		if err := cli.connect(); err != nil {
			return err
		}

		if token != "" {
			if err := cli.session.Adopt(domain.Session{AccessToken: token}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Token saved to", cli.mgr.File())
			return nil
		}

		session, err := api.NewLoginFlow(cli.client).Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
		if err := cli.session.Adopt(*session); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Session saved to", cli.mgr.File())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session and cached data.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cli.cfg.Server.URL == "" {
			// Nothing to talk to; just drop the credentials
			return cli.mgr.ClearSession()
		}
		if err := cli.connect(); err != nil {
			return err
		}
		if err := cli.session.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local listing cache.",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached listing.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ClearCache(cli.cfg.Cache.Dir); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cookie %s\n", Version)
	},
}

func init() {
	loginCmd.Flags().String("server", "", "API server URL, e.g. https://api.cookie.example")
	loginCmd.Flags().String("token", "", "store this access token instead of prompting")

	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(loginCmd, logoutCmd, cacheCmd, versionCmd)
}
