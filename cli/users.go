package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jrsteele09/go-portal-client/api"
	"github.com/jrsteele09/go-portal-client/internal/utils"
	"github.com/jrsteele09/go-portal-client/pagination"
	"github.com/spf13/cobra"
)

func (a *app) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage portal users",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	cmd.AddCommand(a.usersListCmd())
	return cmd
}

func (a *app) usersListCmd() *cobra.Command {
	var page, size int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users, one page at a time (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := a.authedClient()
			if err != nil {
				return err
			}
			if size <= 0 {
				size = a.cfg.GetPageSize()
			}

			var lastErr error
			loader := pagination.NewLoader[api.UserListItem](func(ctx context.Context, p int) (*api.Page[api.UserListItem], error) {
				res, err := client.Users.List(ctx, p, size)
				lastErr = err
				return res, err
			}, pagination.WithPageSize(size), pagination.WithLogger(a.logger))

			loader.Fetch(cmd.Context(), page)
			if lastErr != nil {
				return a.userError(lastErr)
			}

			result := api.Page[api.UserListItem]{Items: loader.Items(), Total: loader.Total(), Page: loader.Page(), Size: loader.PageSize()}
			return a.print(cmd, result, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "UID\tEMAIL\tNAME\tROLE")
				for _, u := range result.Items {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.UID, u.Email, utils.Deref(u.Name), u.Role)
				}
				tw.Flush()
				fmt.Fprintf(w, "page %d/%d, %d users\n", loader.Page(), max(loader.TotalPages(), 1), loader.Total())
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&size, "size", 0, "page size (default from PORTAL_PAGE_SIZE)")
	return cmd
}
