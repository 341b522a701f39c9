package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"budgetapp/internal/core"
)

// credentialFlags binds --email and --password; a missing password is read
// from the first line of stdin.
type credentialFlags struct {
	email    string
	password string
}

func (f *credentialFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.email, "email", "", "Account email")
	cmd.Flags().StringVar(&f.password, "password", "", "Account password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("email")
}

func (f *credentialFlags) credentials(in io.Reader) (core.Credentials, error) {
	password := f.password
	if password == "" {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return core.Credentials{}, fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	return core.Credentials{Email: f.email, Password: password}, nil
}

func signupCmd() *cobra.Command {
	var flags credentialFlags
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create the local account",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := flags.credentials(cmd.InOrStdin())
			if err != nil {
				return err
			}
			user, err := appFrom(cmd).Session.SignUp(cmd.Context(), creds)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Compte créé pour %s\n", user.Email)
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func loginCmd() *cobra.Command {
	var flags credentialFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check credentials against the local account",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := flags.credentials(cmd.InOrStdin())
			if err != nil {
				return err
			}
			user, err := appFrom(cmd).Session.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bonjour %s\n", displayName(user))
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func profileCmd() *cobra.Command {
	var in core.ProfileInput
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			ctx := cmd.Context()
			var (
				user core.User
				err  error
			)
			if in == (core.ProfileInput{}) {
				user, err = app.Session.Current(ctx)
			} else {
				user, err = app.Session.UpdateProfile(ctx, in)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Email:  %s\n", user.Email)
			fmt.Fprintf(out, "Nom:    %s\n", user.Profile.Name)
			fmt.Fprintf(out, "Pseudo: %s\n", user.Profile.Pseudo)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "New display name")
	cmd.Flags().StringVar(&in.Pseudo, "pseudo", "", "New pseudo")
	cmd.Flags().StringVar(&in.Password, "password", "", "New password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and wipe all local data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appFrom(cmd).Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Déconnecté, données locales effacées")
			return nil
		},
	}
}

func displayName(u core.User) string {
	switch {
	case u.Profile.Pseudo != "":
		return u.Profile.Pseudo
	case u.Profile.Name != "":
		return u.Profile.Name
	default:
		return u.Email
	}
}
