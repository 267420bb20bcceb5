package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func addLogin(topLevel *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Request a one-time sign-in link by email",
		Example: `
daybook login alice@example.com
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.auth.RequestLink(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Check your inbox: a sign-in link is on its way.")
			fmt.Println("Then run: daybook verify <token>")
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addVerify(topLevel *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "verify <token>",
		Short: "Exchange the emailed token for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.auth.Verify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Signed in as %s\n", sess.Email)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addLogout(topLevel *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.auth.Logout(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

var errNotSignedIn = errors.New("not signed in: run 'daybook login <email>' first")
