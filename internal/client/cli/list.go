package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ddanilov/daybook/internal/client/api"
	"github.com/ddanilov/daybook/internal/client/models"
	"github.com/ddanilov/daybook/internal/client/pager"
	"github.com/ddanilov/daybook/internal/common"
	"github.com/ddanilov/daybook/internal/tagx"
)

// friendly rewrites auth failures into a hint the user can act on.
func friendly(err error) error {
	if errors.Is(err, common.ErrUnauthorized) {
		return errNotSignedIn
	}
	return err
}

type listOptions struct {
	tags       string
	imagesOnly bool
	all        bool
}

func (a *App) runListing(ctx context.Context, query string, opts listOptions) error {
	p := pager.New(a.entries.List, a.config.PageSize)

	listOpts := api.ListOptions{
		Query:      query,
		ImagesOnly: opts.imagesOnly,
		Tags:       tagx.Normalize(opts.tags),
	}
	if err := p.Reset(ctx, listOpts); err != nil {
		return friendly(err)
	}

	if opts.all {
		for p.HasMore() {
			if _, err := p.LoadMore(ctx); err != nil {
				return friendly(err)
			}
		}
	}

	a.printListing(ctx, p, "more entries available, rerun with --all")
	return nil
}

func addList(topLevel *cobra.Command, app *App) {
	opts := listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries, newest first",
		Example: `
daybook list
daybook list --tags travel,food --images-only
daybook list --all
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runListing(cmd.Context(), "", opts)
		},
	}

	cmd.Flags().StringVar(&opts.tags, "tags", "", "filter by tags (comma separated, all must match)")
	cmd.Flags().BoolVar(&opts.imagesOnly, "images-only", false, "only entries with an image")
	cmd.Flags().BoolVar(&opts.all, "all", false, "fetch every page, not just the first")

	topLevel.AddCommand(cmd)
}

func addSearch(topLevel *cobra.Command, app *App) {
	opts := listOptions{}
	interactive := false

	cmd := &cobra.Command{
		Use:   "search [terms...]",
		Short: "Search titles and content",
		Example: `
daybook search beach trip
daybook search -i
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return app.runLiveSearch(cmd.Context(), cmd.InOrStdin(), opts)
			}
			if len(args) == 0 {
				return cmd.Help()
			}
			return app.runListing(cmd.Context(), strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVar(&opts.tags, "tags", "", "filter by tags (comma separated, all must match)")
	cmd.Flags().BoolVar(&opts.imagesOnly, "images-only", false, "only entries with an image")
	cmd.Flags().BoolVar(&opts.all, "all", false, "fetch every page, not just the first")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for terms and search as you go")

	topLevel.AddCommand(cmd)
}

func addShow(topLevel *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one entry in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.entries.Get(cmd.Context(), args[0])
			if err != nil {
				return friendly(err)
			}

			fmt.Printf("%s\n%s\n", e.Title, e.CreatedAt.Format("2006-01-02 15:04"))
			if len(e.Tags) > 0 {
				fmt.Printf("tags: %s\n", strings.Join(e.Tags, ", "))
			}
			if e.Content != "" {
				fmt.Printf("\n%s\n", e.Content)
			}
			if e.HasImage() {
				urls := app.entries.Hydrate(cmd.Context(), []models.Entry{*e})
				if url, ok := urls[e.ID]; ok {
					fmt.Printf("\nimage: %s\n", url)
				} else {
					fmt.Printf("\nimage: %s\n", *e.ImageRef)
				}
			}
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
