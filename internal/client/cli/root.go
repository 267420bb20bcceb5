// Package cli wires the Daybook commands: passwordless sign-in, listing
// and searching the journal, and entry management.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/ddanilov/daybook/internal/client/api"
	"github.com/ddanilov/daybook/internal/client/config"
	"github.com/ddanilov/daybook/internal/client/services"
	"github.com/ddanilov/daybook/internal/client/session"
)

// App bundles the client-side services the commands run against.
type App struct {
	config  *config.Config
	client  api.Client
	auth    services.AuthService
	entries services.EntryService
}

func NewApp(cfg *config.Config) *App {
	client := api.NewHTTPClient(cfg.ServerURL)

	// arm the client with a persisted session, if any; commands needing
	// auth get 401 otherwise and tell the user to sign in
	if sess, err := session.Load(); err == nil {
		client.SetAccessToken(sess.AccessToken)
	}

	return &App{
		config:  cfg,
		client:  client,
		auth:    services.NewAuthService(client),
		entries: services.NewEntryService(client),
	}
}

// New builds the root command with all subcommands attached.
func New() *cobra.Command {
	app := NewApp(config.LoadConfig())

	root := &cobra.Command{
		Use:           "daybook",
		Short:         "Daybook is a personal journal kept on your own server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// layered config owns -s and -p before cobra sees the args
	root.PersistentFlags().StringP("server", "s", app.config.ServerURL, "server base URL")
	root.PersistentFlags().IntP("page-size", "p", app.config.PageSize, "entries per page")

	addLogin(root, app)
	addVerify(root, app)
	addLogout(root, app)
	addList(root, app)
	addSearch(root, app)
	addShow(root, app)
	addAdd(root, app)
	addEdit(root, app)
	addDelete(root, app)

	return root
}
