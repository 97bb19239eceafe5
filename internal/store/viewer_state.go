package store

import (
	"encoding/json"
	"errors"
	"os"
)

// ViewerState is what the viewer remembers between launches.
//
// It is best effort: a missing or unreadable file yields the default state.
type ViewerState struct {
	Version int `json:"version"`

	TutorialSeen bool `json:"tutorialSeen,omitempty"`

	// LastFilename is restored only when LastSource matches the current source.
	LastFilename string `json:"lastFilename,omitempty"`
	LastSource   string `json:"lastSource,omitempty"`
}

func (s Store) LoadViewerState() (*ViewerState, error) {
	if !s.enabled() {
		return &ViewerState{Version: 1}, nil
	}
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.viewerStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ViewerState{Version: 1}, nil
		}
		return nil, err
	}
	var st ViewerState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupted; start over.
		return &ViewerState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveViewerState(st *ViewerState) error {
	if st == nil || !s.enabled() {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(s.viewerStatePath(), b)
}

// ResumeFilename returns the filename to reopen for source, if any.
func (st *ViewerState) ResumeFilename(source string) string {
	if st == nil || st.LastSource != source {
		return ""
	}
	return st.LastFilename
}
