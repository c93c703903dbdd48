package cuelist

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// ReadShow decodes a show document.
func ReadShow(r io.Reader) (*Show, error) {
	var show Show
	if err := json.NewDecoder(r).Decode(&show); err != nil {
		return nil, fmt.Errorf("decode show: %w", err)
	}
	if show.Cues == nil {
		show.Cues = make([]*Cue, 0)
	}
	return &show, nil
}

// LoadShowFile reads a show document from path.
func LoadShowFile(path string) (*Show, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open show: %w", err)
	}
	defer file.Close()
	return ReadShow(file)
}

// WriteShow encodes show, stamping its modify date.
func WriteShow(w io.Writer, show *Show) error {
	show.ModifyDate = time.Now()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(show); err != nil {
		return fmt.Errorf("encode show: %w", err)
	}
	return nil
}

// Snapshot captures the cue list as a show named name. The show keeps the list's cues, so
// later edits to the list are reflected in it.
func (cl *CueList) Snapshot(id, name string) *Show {
	return &Show{
		ID:         id,
		Name:       name,
		Audio:      cl.Audio(),
		ModifyDate: time.Now(),
		Cues:       cl.Cues(),
	}
}
