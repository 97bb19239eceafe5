package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fotoroute/internal/model"
	"fotoroute/internal/nav"
)

func testRoute() *model.Route {
	return &model.Route{Photos: []model.Photo{
		{Filename: "a.jpg", Location: "Lisbon, Portugal", Lat: 38.72, Lon: -9.14, DateStr: "01.06.2024"},
		{Filename: "b 1.jpg", Location: "Porto, Portugal", DateStr: "02.06.2024"},
		{Filename: "c.jpg", Location: "Madrid, Spain", Lat: 40.42, Lon: -3.70},
		{Filename: "d.jpg"},
	}}
}

func TestRenderRouteMarkdown_ListsRunsInOrder(t *testing.T) {
	t.Parallel()

	md, err := RenderRouteMarkdown(testRoute(), RenderOptions{Title: "Iberia"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"# Iberia",
		"- Countries: 2",
		"- Photos: 4",
		"- [Portugal](01-portugal.md) (2)",
		"- [Spain](02-spain.md) (1)",
		"- [Unknown](03-unk.md) (1)",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
	if strings.Index(md, "Portugal](") > strings.Index(md, "Spain](") {
		t.Fatalf("runs out of order:\n%s", md)
	}
}

func TestRenderRunMarkdown_UsesCaptionFallbacks(t *testing.T) {
	t.Parallel()

	items := nav.ItemsFromPhotos(testRoute().Photos)
	runs := nav.GroupRuns(items)

	md := RenderRunMarkdown(items, runs[0], RenderOptions{ImageBase: "https://photos.example/api/thumb/"})
	if !strings.Contains(md, "![Porto, Portugal](https://photos.example/api/thumb/b%201.jpg)") {
		t.Fatalf("image link not rendered:\n%s", md)
	}
	if !strings.Contains(md, "38.72000, -9.14000") {
		t.Fatalf("coordinates missing:\n%s", md)
	}

	md = RenderRunMarkdown(items, runs[2], RenderOptions{})
	if !strings.Contains(md, "## Unknown") || !strings.Contains(md, "_Date unknown_") {
		t.Fatalf("fallbacks missing:\n%s", md)
	}
}

func TestWriteRoute_WritesPagesAndRespectsOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	res, err := WriteRoute(testRoute(), dir, WriteOptions{})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(res.Written) != 4 {
		t.Fatalf("expected index + 3 pages, got %v", res.Written)
	}
	b, err := os.ReadFile(filepath.Join(dir, "02-spain.md"))
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	if !strings.Contains(string(b), "# Spain") {
		t.Fatalf("unexpected page:\n%s", b)
	}

	if _, err := WriteRoute(testRoute(), dir, WriteOptions{}); err == nil {
		t.Fatalf("expected an error when files exist")
	}
	if _, err := WriteRoute(testRoute(), dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}
