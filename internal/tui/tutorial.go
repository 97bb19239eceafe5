package tui

const tutorialMarkdown = `
## Getting around

- **← / →** step through the photos in travel order. The route wraps at both ends.
- **↑ / ↓** jump to the previous or next country.
- **Drag** across the photo to swipe: sideways for photos, up and down for countries.
- **Click** the photo or press **f** for fullscreen.
- **Click** a row in the marker list to jump to that photo.
- **/** finds a place by name.

Press **s** (or click *Stats*) for trip totals.
`
