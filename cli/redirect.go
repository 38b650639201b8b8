package cli

import (
	"fmt"
	"io"

	"github.com/jrsteele09/go-portal-client/redirect"
	"github.com/jrsteele09/go-portal-client/routes"
	"github.com/spf13/cobra"
)

type redirectResult struct {
	URL     string `json:"url"`
	Allowed bool   `json:"allowed"`
}

func (a *app) redirectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redirect",
		Short: "Open redirect protection",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <url>...",
		Short: "Report whether each URL is a safe redirect target",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := redirect.NewFromConfig(a.cfg)
			if err != nil {
				return err
			}

			results := make([]redirectResult, 0, len(args))
			denied := 0
			for _, raw := range args {
				ok := v.IsAllowed(raw)
				if !ok {
					denied++
				}
				results = append(results, redirectResult{URL: raw, Allowed: ok})
			}

			if err := a.print(cmd, results, func(w io.Writer) {
				for _, r := range results {
					verdict := green("allowed")
					if !r.Allowed {
						verdict = red("denied ")
					}
					fmt.Fprintf(w, "%s %s\n", verdict, r.URL)
				}
			}); err != nil {
				return err
			}
			if denied > 0 {
				return fmt.Errorf("%d of %d urls denied", denied, len(args))
			}
			return nil
		},
	})
	return cmd
}

func (a *app) routesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Inspect the portal page table",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List pages and their guards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := routes.NewRouter(a.cfg.GetAppName()).Routes()
			return a.print(cmd, list, func(w io.Writer) {
				for _, r := range list {
					guard := "public"
					switch {
					case r.RequiresAdmin:
						guard = "admin"
					case r.RequiresAuth:
						guard = "auth"
					}
					fmt.Fprintf(w, "%-12s %-10s %s\n", r.Path, guard, r.Title)
				}
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "resolve <path>",
		Short: "Show where navigating to path leads for the current session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.session()
			if err != nil {
				return err
			}
			res := routes.NewRouter(a.cfg.GetAppName()).Resolve(args[0], m)
			return a.print(cmd, res, func(w io.Writer) {
				fmt.Fprintf(w, "%s (%s)\n", bold(res.Route.Name), res.Title)
				if res.Redirect != "" {
					fmt.Fprintf(w, "redirect: %s\n", yellow(res.Redirect))
				}
			})
		},
	})
	return cmd
}
