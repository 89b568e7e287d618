package batch

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/jmylchreest/iristint/internal/compression"
	imageio "github.com/jmylchreest/iristint/internal/image"
	"github.com/jmylchreest/iristint/internal/transform"
)

// Report holds the ordered entries of a finished batch.
type Report struct {
	Prefix   string
	Params   transform.Params
	Entries  []Entry
	Emission *image.Gray
}

// Succeeded returns the entries that produced a texture, in batch order.
func (r *Report) Succeeded() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.OK() {
			out = append(out, e)
		}
	}
	return out
}

// Failed returns the entries that did not produce a texture, in batch order.
func (r *Report) Failed() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if !e.OK() {
			out = append(out, e)
		}
	}
	return out
}

// Manifest describes a batch archive. It is stored as manifest.json.
type Manifest struct {
	Prefix   string           `json:"prefix"`
	Params   transform.Params `json:"params"`
	Emission string           `json:"emission,omitempty"`
	Entries  []ManifestEntry  `json:"entries"`
}

// ManifestEntry describes one combination in a manifest.
type ManifestEntry struct {
	Name    string `json:"name"`
	File    string `json:"file,omitempty"`
	Caption string `json:"caption"`
	Preset  string `json:"preset"`
	Mode    string `json:"mode"`
	Hex     string `json:"hex"`
	Error   string `json:"error,omitempty"`
}

// Manifest summarises the report. Failed entries are listed with their error
// and no file.
func (r *Report) Manifest() Manifest {
	m := Manifest{
		Prefix:  r.Prefix,
		Params:  r.Params,
		Entries: make([]ManifestEntry, 0, len(r.Entries)),
	}
	if r.Emission != nil {
		m.Emission = EmissionName + ".png"
	}

	for _, e := range r.Entries {
		me := ManifestEntry{
			Name:    e.Name,
			Caption: e.Caption,
			Preset:  e.Preset.ID,
			Mode:    e.Mode.String(),
			Hex:     e.Preset.Hex(),
		}
		if e.OK() {
			me.File = e.Name + ".png"
		} else if e.Err != nil {
			me.Error = e.Err.Error()
		}
		m.Entries = append(m.Entries, me)
	}
	return m
}

// eachFile encodes every output file of the report in archive order:
// successful entries, the emission mask, then the manifest.
func (r *Report) eachFile(fn func(name string, data []byte) error) error {
	for _, e := range r.Entries {
		if !e.OK() {
			continue
		}
		data, err := imageio.PNGBytes(e.Texture.NRGBA())
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", e.Name, err)
		}
		if err := fn(e.Name+".png", data); err != nil {
			return err
		}
	}

	if r.Emission != nil {
		data, err := imageio.PNGBytes(r.Emission)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", EmissionName, err)
		}
		if err := fn(EmissionName+".png", data); err != nil {
			return err
		}
	}

	manifest, err := json.MarshalIndent(r.Manifest(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return fn(ManifestName, manifest)
}

// WriteArchive adds every output file to w. The caller closes w.
func (r *Report) WriteArchive(w compression.Writer) error {
	return r.eachFile(w.Add)
}

// WriteDir writes every output file into dir, creating it if needed.
func (r *Report) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Output directories are user-facing
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return r.eachFile(func(name string, data []byte) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - Output images are user-facing
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	})
}
