package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	loginPassword string
	loginRegister bool
	loginEmail    string
)

// loginCmd obtains an access token
var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in and print an access token",
	Long: `Log in (or register with --register) and print the access token.
Export it as SHARESPLIT_API_TOKEN for later commands.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (default from SHARESPLIT_PASSWORD)")
	loginCmd.Flags().BoolVar(&loginRegister, "register", false, "create the account first")
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "email address for --register")
}

func runLogin(cmd *cobra.Command, args []string) error {
	password := loginPassword
	if password == "" {
		password = os.Getenv("SHARESPLIT_PASSWORD")
	}
	if password == "" {
		return errors.New("a password is required (--password or SHARESPLIT_PASSWORD)")
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	username := args[0]
	if loginRegister {
		_, err = client.Register(cmd.Context(), username, loginEmail, password)
	} else {
		_, err = client.Login(cmd.Context(), username, password)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "export SHARESPLIT_API_TOKEN=%s\n", client.Token())
	return nil
}
