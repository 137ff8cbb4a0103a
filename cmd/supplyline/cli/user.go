package cli

import (
	"errors"
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/supplyline/supplyline/internal/auth"
)

const (
	usernameFlag = "username"
	passwordFlag = "password"
	roleFlag     = "role"
)

func newUserFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		usernameFlag: &cobraflags.StringFlag{
			Name:  usernameFlag,
			Value: "",
			Usage: "Login name of the new account (required)",
		},
		passwordFlag: &cobraflags.StringFlag{
			Name:  passwordFlag,
			Value: "",
			Usage: "Plain text password, 8 to 72 bytes (required)",
		},
		roleFlag: &cobraflags.StringFlag{
			Name:  roleFlag,
			Value: auth.DefaultRole,
			Usage: "Role stored with the account",
		},
	}
}

func newUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage login accounts",
	}

	flags := newUserFlags()
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account with a bcrypt-hashed password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return createUser(cmd, flags)
		},
	}
	cobraflags.RegisterMap(createCmd, flags)

	userCmd.AddCommand(createCmd)
	return userCmd
}

func createUser(cmd *cobra.Command, flags map[string]cobraflags.Flag) error {
	reg := auth.Registration{
		Username: flags[usernameFlag].GetString(),
		Password: flags[passwordFlag].GetString(),
		Role:     flags[roleFlag].GetString(),
	}
	if reg.Username == "" || reg.Password == "" {
		return errors.New("--username and --password are required")
	}

	rt, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	user, err := rt.services.Auth.Register(cmd.Context(), reg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "created user %d %s (%s)\n", user.ID, user.Username, user.Role)
	return err
}
