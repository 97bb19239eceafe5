package cli

import (
	"strings"

	"fotoroute/internal/publish"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var to string
	var title string
	var imageBase string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write the route as a Markdown travel journal",
		Example: strings.TrimSpace(`
fotoroute publish --dir ~/Pictures/trip --to ./journal --title "Iberia 2024"
fotoroute publish --url https://photos.example.com --to ./journal --image-base https://photos.example.com/api/thumb
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, _, err := loadRoute(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := publish.WriteRoute(f.Route, to, publish.WriteOptions{
				Title:     title,
				ImageBase: imageBase,
				Overwrite: overwrite,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   res,
				"_hints": staleHints(f),
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output directory")
	cmd.Flags().StringVar(&title, "title", "", "Journal title")
	cmd.Flags().StringVar(&imageBase, "image-base", "", "URL prefix for photo links (default: relative filenames)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	return cmd
}
