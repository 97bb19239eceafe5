package publish

import (
	"bytes"
	"fmt"
	"strings"

	"fotoroute/internal/feed"
	"fotoroute/internal/model"
	"fotoroute/internal/nav"
)

type RenderOptions struct {
	Title string
	// ImageBase prefixes photo filenames in image links; empty means
	// filenames are linked relative to the page.
	ImageBase string
}

// RenderRouteMarkdown renders the journal index: totals, then one section per
// country run in travel order.
func RenderRouteMarkdown(r *model.Route, opt RenderOptions) (string, error) {
	if r == nil {
		return "", fmt.Errorf("missing route")
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = "Travel journal"
	}
	writeLn("# " + title)
	writeLn("")

	st := feed.ComputeStats(r.Photos)
	if r.Stats != nil {
		st = *r.Stats
	}
	writeLn("## Totals")
	writeLn("")
	writeLn(fmt.Sprintf("- Distance: %.1f km", st.TotalKm))
	writeLn(fmt.Sprintf("- Countries: %d", st.Countries))
	writeLn(fmt.Sprintf("- Days: %d", st.Days))
	writeLn(fmt.Sprintf("- Photos: %d", st.PhotoCount))
	writeLn("")

	items := nav.ItemsFromPhotos(r.Photos)
	runs := nav.GroupRuns(items)
	if len(runs) == 0 {
		writeLn("_No photos yet._")
		return buf.String(), nil
	}

	writeLn("## Route")
	writeLn("")
	for i, run := range runs {
		writeLn(fmt.Sprintf("- [%s](%s) (%d)", groupTitle(run.Group), runPageName(i, run), run.Len))
	}
	return buf.String(), nil
}

// RenderRunMarkdown renders one country run as its own page.
func RenderRunMarkdown(items []nav.Item, run nav.Run, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + groupTitle(run.Group))
	writeLn("")
	for _, it := range items[run.Start : run.Start+run.Len] {
		p := it.Photo
		writeLn("## " + p.DisplayLocation())
		writeLn("")
		writeLn(fmt.Sprintf("_%s_", p.DisplayDate()))
		writeLn("")
		writeLn(fmt.Sprintf("![%s](%s)", p.DisplayLocation(), imageLink(opt.ImageBase, p.Filename)))
		if p.Lat != 0 || p.Lon != 0 {
			writeLn("")
			writeLn(fmt.Sprintf("%.5f, %.5f", p.Lat, p.Lon))
		}
		writeLn("")
	}
	return buf.String()
}

func groupTitle(g string) string {
	if g == model.UnknownGroup {
		return "Unknown"
	}
	return g
}

func imageLink(base, filename string) string {
	name := strings.ReplaceAll(filename, " ", "%20")
	base = strings.TrimSpace(base)
	if base == "" {
		return name
	}
	return strings.TrimRight(base, "/") + "/" + name
}

// runPageName is stable for a given route: runs are numbered in travel order.
func runPageName(i int, run nav.Run) string {
	return fmt.Sprintf("%02d-%s.md", i+1, slug(run.Group))
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return "place"
	}
	return out
}
