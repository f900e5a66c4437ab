package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"energy-cli/internal/router"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List dashboard views and the commands that render them",
	RunE: func(cmd *cobra.Command, args []string) error {
		routes := current.router.Routes()

		if jsonOutput {
			return printJSON(routes)
		}

		w := newTable("PATH", "NAME", "TITLE", "COMMAND", "ADMIN")
		for _, rt := range routes {
			if rt.Redirect != "" {
				fmt.Fprintf(w, "%s\t-\t-> %s\t-\t-\n", rt.Path, rt.Redirect)
				continue
			}
			admin := ""
			if rt.AdminOnly {
				admin = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", rt.Path, rt.Name, rt.Title, rt.Command, orDash(admin))
		}
		return w.Flush()
	},
}

var openCmd = &cobra.Command{
	Use:     "open <path>",
	Short:   "Navigate to a dashboard view",
	Example: `  energy-cli open /alarms
  energy-cli open /`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := current.router.Navigate(args[0])
		if err != nil {
			return err
		}
		if rt.Path == router.LoginPath {
			if want, rerr := current.router.Resolve(args[0]); rerr != nil || want.Path != router.LoginPath {
				return errLoginRequired
			}
			return errors.New("use 'energy-cli login' to sign in")
		}

		view, _, err := rootCmd.Find([]string{rt.Command})
		if err != nil || view.RunE == nil {
			return fmt.Errorf("no command renders %s", rt.Path)
		}
		view.SetContext(cmd.Context())
		return view.RunE(view, nil)
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(openCmd)
}
