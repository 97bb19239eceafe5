package cli

import (
	"context"
	"strings"
	"time"

	"fotoroute/internal/feed"
	"fotoroute/internal/model"
	"fotoroute/internal/nav"

	"github.com/spf13/cobra"
)

func newViewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Open the interactive viewer (default when no command is given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewer(cmd, app)
		},
	}
}

func newRouteCmd(app *App) *cobra.Command {
	var groups bool

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Print the photo route",
		Example: strings.TrimSpace(`
fotoroute route --url https://photos.example.com --token s3cret --pretty
fotoroute route --dir ~/Pictures/trip --groups --format yaml
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, src, err := loadRoute(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			data := map[string]any{
				"source":    src,
				"stale":     f.Stale,
				"fetchedAt": f.FetchedAt.UTC().Format(time.RFC3339Nano),
				"photos":    f.Route.Photos,
				"stats":     routeStats(f.Route),
			}
			if groups {
				data["groups"] = nav.GroupRuns(nav.ItemsFromPhotos(f.Route.Photos))
			}
			return writeOut(cmd, app, map[string]any{
				"data":   data,
				"_hints": staleHints(f),
			})
		},
	}
	cmd.Flags().BoolVar(&groups, "groups", false, "Include the country runs in travel order")
	return cmd
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print trip totals (distance, countries, days, photos)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, _, err := loadRoute(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   routeStats(f.Route),
				"_hints": staleHints(f),
			})
		},
	}
}

func newFindCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "find <place>",
		Short: "Find where a place starts in the route",
		Example: strings.TrimSpace(`
fotoroute find --dir ~/Pictures/trip portugal
fotoroute find --url https://photos.example.com "Lisbon"
`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			f, _, err := loadRoute(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			items := nav.ItemsFromPhotos(f.Route.Photos)
			i, ok := nav.FindGroup(items, query)
			if !ok {
				return writeErr(cmd, errNotFound("place", query))
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"index": i,
					"group": items[i].Group,
					"photo": items[i].Photo,
				},
			})
		},
	}
}

func loadRoute(cmd *cobra.Command, app *App) (*feed.Fetched, string, error) {
	log, err := app.logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, "", err
	}
	src, err := app.source(log)
	if err != nil {
		return nil, "", err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()
	f, err := feed.Load(ctx, src)
	if err != nil {
		return nil, "", err
	}
	return f, src.Key(), nil
}

func routeStats(r *model.Route) model.Stats {
	if r.Stats != nil {
		return *r.Stats
	}
	return feed.ComputeStats(r.Photos)
}

func staleHints(f *feed.Fetched) []string {
	hints := []string{}
	if f.Stale {
		msg := "served from the route cache"
		if f.Err != nil {
			msg += ": " + f.Err.Error()
		}
		hints = append(hints, msg)
	}
	return hints
}
