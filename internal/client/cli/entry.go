package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ddanilov/daybook/internal/client/services"
)

func addAdd(topLevel *cobra.Command, app *App) {
	var (
		title   string
		content string
		tags    string
		image   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a journal entry",
		Example: `
daybook add --title "Beach day" --content "Sand everywhere." --tags travel,summer
daybook add --title "Sunset" --image ./sunset.jpg
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.entries.Add(cmd.Context(), title, content, tags, image)
			if err != nil {
				return friendly(err)
			}
			fmt.Printf("Added %s\n", e.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "entry title")
	cmd.Flags().StringVar(&content, "content", "", "entry text")
	cmd.Flags().StringVar(&tags, "tags", "", "tags (comma separated)")
	cmd.Flags().StringVar(&image, "image", "", "path of an image to attach")

	topLevel.AddCommand(cmd)
}

func addEdit(topLevel *cobra.Command, app *App) {
	var (
		title       string
		content     string
		tags        string
		image       string
		removeImage bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change parts of an entry",
		Long: `Change parts of an entry. Only the flags given are applied;
an untouched image stays untouched, --remove-image detaches it.`,
		Example: `
daybook edit 42 --title "Better title"
daybook edit 42 --tags travel --remove-image
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := services.EditRequest{
				ImagePath:   image,
				RemoveImage: removeImage,
			}
			// only flags the user actually set become part of the patch
			if cmd.Flags().Changed("title") {
				req.Title = &title
			}
			if cmd.Flags().Changed("content") {
				req.Content = &content
			}
			if cmd.Flags().Changed("tags") {
				req.Tags = &tags
			}

			e, err := app.entries.Edit(cmd.Context(), args[0], req)
			if err != nil {
				return friendly(err)
			}
			fmt.Printf("Updated %s\n", e.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&content, "content", "", "new text")
	cmd.Flags().StringVar(&tags, "tags", "", "new tags (comma separated, empty clears)")
	cmd.Flags().StringVar(&image, "image", "", "path of a new image")
	cmd.Flags().BoolVar(&removeImage, "remove-image", false, "detach the current image")

	topLevel.AddCommand(cmd)
}

func addDelete(topLevel *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry and its image",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.entries.DeleteByID(cmd.Context(), args[0]); err != nil {
				return friendly(err)
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
