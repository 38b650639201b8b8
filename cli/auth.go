package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jrsteele09/go-portal-client/api"
	"github.com/jrsteele09/go-portal-client/forms"
	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a uid or email and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = readLine(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
			}

			m, err := a.session()
			if err != nil {
				return err
			}
			client, err := a.client(nil)
			if err != nil {
				return err
			}

			validate := func() string {
				if username == "" || password == "" {
					return "username and password are required"
				}
				return ""
			}
			resp, msg := forms.Submit(cmd.Context(), validate, func(ctx context.Context) (*api.LoginResponse, error) {
				resp, err := client.Users.Login(ctx, username, password)
				if err != nil {
					a.logger.Debug().Err(err).Str("username", username).Msg("login failed")
				}
				return resp, err
			})
			if msg != "" {
				return errors.New(msg)
			}
			if err := m.LoginWithResponse(resp); err != nil {
				return err
			}

			sess := m.Session()
			return a.print(cmd, resp.User, func(w io.Writer) {
				fmt.Fprintf(w, "Logged in as %s (%s), session valid until %s\n",
					bold(resp.User.UID), resp.User.Role, sess.ExpiresAt.Local().Format(time.RFC1123))
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "uid or email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when omitted)")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.session()
			if err != nil {
				return err
			}
			if err := m.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, client, err := a.authedClient()
			if err != nil {
				return err
			}
			me, err := client.Users.Me(cmd.Context())
			if err != nil {
				return a.userError(err)
			}

			expires := m.Session().ExpiresAt
			return a.print(cmd, me, func(w io.Writer) {
				fmt.Fprintf(w, "%s <%s>\n", bold(me.UID), me.Email)
				fmt.Fprintf(w, "  name:    %s\n", me.Profile.Name)
				fmt.Fprintf(w, "  role:    %s\n", me.Role)
				fmt.Fprintf(w, "  expires: %s\n", expires.Local().Format(time.RFC1123))
			})
		},
	}
}

func (a *app) registerCmd() *cobra.Command {
	var user api.UserSchema
	var confirm string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (a verification email is sent)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(nil)
			if err != nil {
				return err
			}
			if user.Role == "" {
				user.Role = api.RoleUser
			}

			_, msg := forms.Submit(cmd.Context(), func() string {
				return forms.ValidatePassword(user.Pwd, confirm)
			}, func(ctx context.Context) (struct{}, error) {
				err := client.Users.Create(ctx, user)
				if err != nil {
					a.logger.Debug().Err(err).Str("uid", user.UID).Msg("registration failed")
				}
				return struct{}{}, err
			})
			if msg != "" {
				return errors.New(msg)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s, check %s for the verification link\n", user.UID, user.Email)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&user.UID, "uid", "", "login id")
	flags.StringVar(&user.Email, "email", "", "email address")
	flags.StringVar(&user.Name, "name", "", "display name")
	flags.StringVar(&user.Birthdate, "birthdate", "", "birth date (YYYY-MM-DD)")
	flags.StringVar(&user.Description, "description", "", "profile description")
	flags.StringVar(&user.Pwd, "password", "", "password")
	flags.StringVar(&confirm, "confirm-password", "", "password again")
	return cmd
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
