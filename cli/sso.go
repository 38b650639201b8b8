package cli

import (
	"fmt"
	"io"

	"github.com/jrsteele09/go-portal-client/sso"
	"github.com/spf13/cobra"
)

func (a *app) ssoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sso",
		Short: "Single sign-on providers",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	cmd.AddCommand(a.ssoProvidersCmd(), a.ssoDiscoverCmd())
	return cmd
}

func (a *app) ssoProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the providers offered on the login page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(nil)
			if err != nil {
				return err
			}
			list, err := client.SSO.Providers(cmd.Context())
			if err != nil {
				return a.userError(err)
			}
			return a.print(cmd, list, func(w io.Writer) {
				for _, p := range list.Providers {
					fmt.Fprintf(w, "%-16s %-5s %s\n", p.Slug, p.Protocol, p.Name)
				}
			})
		},
	}
}

func (a *app) ssoDiscoverCmd() *cobra.Command {
	var clientID, clientSecret, name, slug string
	var create bool

	cmd := &cobra.Command{
		Use:   "discover <issuer>",
		Short: "Build an OIDC provider configuration from the issuer's discovery document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sso.DiscoverOIDC(cmd.Context(), nil, args[0], clientID, clientSecret)
			if err != nil {
				return err
			}
			if !create {
				return a.print(cmd, cfg, func(w io.Writer) {
					fmt.Fprintf(w, "authorization: %s\n", cfg.AuthorizationURL)
					fmt.Fprintf(w, "token:         %s\n", cfg.TokenURL)
					if cfg.UserinfoURL != nil {
						fmt.Fprintf(w, "userinfo:      %s\n", *cfg.UserinfoURL)
					}
					if cfg.JWKSURI != nil {
						fmt.Fprintf(w, "jwks:          %s\n", *cfg.JWKSURI)
					}
					fmt.Fprintf(w, "scopes:        %s\n", cfg.Scopes)
				})
			}

			_, client, err := a.authedClient()
			if err != nil {
				return err
			}
			provider, err := client.SSO.AdminCreate(cmd.Context(), sso.NewOIDCProviderRequest(name, slug, cfg))
			if err != nil {
				return a.userError(err)
			}
			return a.print(cmd, provider, func(w io.Writer) {
				fmt.Fprintf(w, "Created provider %s (%s)\n", bold(provider.Slug), provider.ID)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&clientID, "client-id", "", "OAuth client id registered with the issuer")
	flags.StringVar(&clientSecret, "client-secret", "", "OAuth client secret")
	flags.BoolVar(&create, "create", false, "register the provider with the portal (admin only)")
	flags.StringVar(&name, "name", "", "provider display name (with --create)")
	flags.StringVar(&slug, "slug", "", "provider slug (with --create)")
	return cmd
}
