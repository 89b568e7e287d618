package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/iristint/internal/colour"
	"github.com/jmylchreest/iristint/internal/compression"
	"github.com/jmylchreest/iristint/internal/raster"
	"github.com/jmylchreest/iristint/internal/transform"
)

func fixture(t *testing.T) (*raster.Texture, *raster.Mask) {
	t.Helper()
	tex := raster.NewTexture(16, 16)
	for i := 0; i < len(tex.Pix); i += 4 {
		tex.Pix[i] = 0.8
		tex.Pix[i+1] = 0.3
		tex.Pix[i+2] = 0.2
		tex.Pix[i+3] = 1
	}
	mask := raster.NewMask(16, 16)
	for y := 4; y < 12; y++ {
		for x := 4; x < 12; x++ {
			mask.Pix[y*16+x] = 1
		}
	}
	return tex, mask
}

func presets(t *testing.T, ids ...string) []colour.Preset {
	t.Helper()
	ps, err := colour.ParsePresets(ids)
	if err != nil {
		t.Fatal(err)
	}
	return ps
}

func TestRunCompleteAndOrdered(t *testing.T) {
	tex, mask := fixture(t)
	job := Job{
		Prefix:  "magical eye",
		Presets: presets(t, "pastel_cyan", "deep_blue"),
		Modes:   transform.Modes(),
		Params:  transform.DefaultParams(),
	}

	runner := NewRunner(hclog.NewNullLogger(), 3)
	report, err := runner.Run(context.Background(), tex, mask, job)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var names []string
	for _, e := range report.Entries {
		names = append(names, e.Name)
		if !e.OK() {
			t.Errorf("%s failed: %v", e.Name, e.Err)
		}
	}
	want := []string{
		"magical_eye_pastel_cyan_basic",
		"magical_eye_pastel_cyan_gradient",
		"magical_eye_pastel_cyan_aurora",
		"magical_eye_deep_blue_basic",
		"magical_eye_deep_blue_gradient",
		"magical_eye_deep_blue_aurora",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("entry names mismatch (-want +got):\n%s", diff)
	}
	if report.Emission != nil {
		t.Error("Emission should be nil when not requested")
	}
}

func TestRunMatchesSingleApply(t *testing.T) {
	tex, mask := fixture(t)
	params := transform.DefaultParams()
	job := Job{Presets: presets(t, "pastel_pink"), Modes: []transform.Mode{transform.ModeGradient}, Params: params}

	report, err := (&Runner{}).Run(context.Background(), tex, mask, job)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	single, err := transform.Apply(tex, mask, job.Presets[0], transform.ModeGradient, params)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if diff := cmp.Diff(single.Texture.Pix, report.Entries[0].Texture.Pix); diff != "" {
		t.Errorf("batch output differs from single call (-single +batch):\n%s", diff)
	}
}

func TestRunPartialFailure(t *testing.T) {
	tex, mask := fixture(t)
	job := Job{
		Presets: presets(t, "pastel_mint"),
		Modes:   []transform.Mode{transform.ModeBasic, transform.Mode(99), transform.ModeAurora},
		Params:  transform.DefaultParams(),
	}

	report, err := NewRunner(nil, 1).Run(context.Background(), tex, mask, job)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := len(report.Succeeded()); got != 2 {
		t.Errorf("Succeeded() = %d entries, want 2", got)
	}
	failed := report.Failed()
	if len(failed) != 1 || !errors.Is(failed[0].Err, transform.ErrUnknownMode) {
		t.Fatalf("Failed() = %+v, want one ErrUnknownMode entry", failed)
	}

	m := report.Manifest()
	if m.Entries[1].Error == "" || m.Entries[1].File != "" {
		t.Errorf("manifest entry for failure = %+v", m.Entries[1])
	}
	if m.Entries[0].File != "eye_pastel_mint_basic.png" {
		t.Errorf("manifest file = %q", m.Entries[0].File)
	}
}

func TestRunDimensionMismatchRecordedPerEntry(t *testing.T) {
	tex, _ := fixture(t)
	job := Job{Presets: presets(t, "pastel_sky"), Modes: []transform.Mode{transform.ModeBasic}, Params: transform.DefaultParams()}

	report, err := NewRunner(nil, 0).Run(context.Background(), tex, raster.NewMask(8, 8), job)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !errors.Is(report.Entries[0].Err, transform.ErrDimensionMismatch) {
		t.Errorf("entry error = %v, want ErrDimensionMismatch", report.Entries[0].Err)
	}
}

func TestRunValidation(t *testing.T) {
	tex, mask := fixture(t)
	valid := Job{Presets: presets(t, "pastel_cyan"), Modes: transform.Modes(), Params: transform.DefaultParams()}

	tests := []struct {
		name    string
		tex     *raster.Texture
		mask    *raster.Mask
		modify  func(*Job)
		wantErr error
	}{
		{"nil texture", nil, mask, nil, ErrInvalidInput},
		{"nil mask", tex, nil, nil, ErrInvalidInput},
		{"no presets", tex, mask, func(j *Job) { j.Presets = nil }, ErrNoPresets},
		{"no modes", tex, mask, func(j *Job) { j.Modes = nil }, ErrNoModes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := valid
			if tt.modify != nil {
				tt.modify(&job)
			}
			if _, err := NewRunner(nil, 2).Run(context.Background(), tt.tex, tt.mask, job); !errors.Is(err, tt.wantErr) {
				t.Errorf("Run error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunCancelled(t *testing.T) {
	tex, mask := fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := Job{Presets: presets(t, "all"), Modes: transform.Modes(), Params: transform.DefaultParams()}
	report, err := NewRunner(nil, 2).Run(ctx, tex, mask, job)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Entries) != 27 {
		t.Fatalf("got %d entries, want 27", len(report.Entries))
	}
	for _, e := range report.Entries {
		if !errors.Is(e.Err, context.Canceled) {
			t.Fatalf("%s: err = %v, want context.Canceled", e.Name, e.Err)
		}
	}
}

func TestWriteArchive(t *testing.T) {
	tex, mask := fixture(t)
	params := transform.DefaultParams()
	params.MakeEmission = true
	job := Job{Prefix: "batch", Presets: presets(t, "pastel_lemon", "pastel_coral"), Modes: []transform.Mode{transform.ModeBasic, transform.ModeAurora}, Params: params}

	report, err := NewRunner(nil, 4).Run(context.Background(), tex, mask, job)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Emission == nil {
		t.Fatal("Expected emission mask")
	}

	path := filepath.Join(t.TempDir(), ArchiveName(job.Prefix, "0badc0de")+".tar.xz")
	w, err := compression.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := report.WriteArchive(w); err != nil {
		t.Fatalf("WriteArchive failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	entries, err := compression.List(path)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	want := []string{
		"batch_pastel_lemon_basic.png",
		"batch_pastel_lemon_aurora.png",
		"batch_pastel_coral_basic.png",
		"batch_pastel_coral_aurora.png",
		"emission_glow_mask.png",
		"manifest.json",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("archive entries mismatch (-want +got):\n%s", diff)
	}

	data, err := compression.ReadFile(path, "batch_pastel_coral_aurora.png")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("entry is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Errorf("entry bounds = %v", img.Bounds())
	}

	raw, err := compression.ReadFile(path, ManifestName)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("manifest is not JSON: %v", err)
	}
	if m.Emission != "emission_glow_mask.png" || len(m.Entries) != 4 || m.Entries[3].Caption != "Ocean Coral · Aurora" {
		t.Errorf("unexpected manifest: %+v", m)
	}
}

func TestWriteDir(t *testing.T) {
	tex, mask := fixture(t)
	job := Job{Presets: presets(t, "pastel_peach"), Modes: []transform.Mode{transform.ModeGradient}, Params: transform.DefaultParams()}

	report, err := NewRunner(nil, 1).Run(context.Background(), tex, mask, job)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "out")
	if err := report.WriteDir(dir); err != nil {
		t.Fatalf("WriteDir failed: %v", err)
	}
	for _, name := range []string{"eye_pastel_peach_gradient.png", ManifestName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, EmissionName+".png")); !os.IsNotExist(err) {
		t.Error("emission file written without being requested")
	}
}
