package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/auth"
)

var (
	flagName     string
	flagEmail    string
	flagPassword string
	flagConfirm  string
	flagRedirect string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := application.Services.Auth.Login(cmd.Context(), services.LoginInput{
			Email: flagEmail, Password: flagPassword,
		}, flagRedirect)
		if err != nil {
			return err
		}
		return moved(cmd, res)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := application.Services.Auth.Register(cmd.Context(), services.RegisterInput{
			Name: flagName, Email: flagEmail, Password: flagPassword, ConfirmPassword: flagConfirm,
		}, flagRedirect)
		if err != nil {
			return err
		}
		return moved(cmd, res)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear every stored slot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := application.Services.Auth.Logout(cmd.Context())
		if err != nil {
			return err
		}
		return moved(cmd, res)
	},
}

// storefront profile [--name --email --password --confirm]
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the profile; any flag updates it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := enter("profile", "/profile"); err != nil {
			return err
		}

		f := cmd.Flags()
		if f.Changed("name") || f.Changed("email") || f.Changed("password") {
			cur, err := application.Services.Auth.Profile()
			if err != nil {
				return err
			}
			in := services.ProfileInput{Name: cur.Name, Email: cur.Email, Password: flagPassword, ConfirmPassword: flagConfirm}
			if f.Changed("name") {
				in.Name = flagName
			}
			if f.Changed("email") {
				in.Email = flagEmail
			}
			res, err := application.Services.Auth.UpdateProfile(cmd.Context(), in)
			if err != nil {
				return err
			}
			return moved(cmd, res)
		}

		v, err := application.Services.Auth.Profile()
		if err != nil {
			return err
		}
		return show(cmd, v, func(w *tabwriter.Writer) {
			fmt.Fprintf(w, "Name\t%s\n", v.Name)
			fmt.Fprintf(w, "Email\t%s\n", v.Email)
			if exp, err := auth.Expiry(application.Store.State().Session.Token); err == nil {
				fmt.Fprintf(w, "Session expires\t%s\n", exp.Local().Format("2006-01-02 15:04"))
			}
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&flagEmail, "email", "", "email address")
		c.Flags().StringVar(&flagPassword, "password", "", "password")
		c.Flags().StringVar(&flagRedirect, "redirect", "/", "screen to continue to")
	}
	registerCmd.Flags().StringVar(&flagName, "name", "", "display name")
	registerCmd.Flags().StringVar(&flagConfirm, "confirm", "", "password again")

	profileCmd.Flags().StringVar(&flagName, "name", "", "new name")
	profileCmd.Flags().StringVar(&flagEmail, "email", "", "new email")
	profileCmd.Flags().StringVar(&flagPassword, "password", "", "new password")
	profileCmd.Flags().StringVar(&flagConfirm, "confirm", "", "new password again")
}
