package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"noisebatch/pkg/config"
	"noisebatch/pkg/errors"
	"noisebatch/pkg/models"
)

func testRequest(t *testing.T) Request {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("Failed to load timezone: %v", err)
	}
	return Request{
		Source: "bush_point",
		Node:   "rpi_bush_point",
		Resolution: models.Resolution{
			DeltaF: 10,
			DeltaT: 60,
		},
		Mode: "safe",
		Range: models.TimeRange{
			Start: time.Date(2026, 1, 15, 22, 0, 0, 0, loc),
			End:   time.Date(2026, 1, 16, 0, 0, 0, 0, loc),
		},
		Destination: "/data/hydrophone=bush_point/date=2026-01-15",
	}
}

func TestBuildArgs(t *testing.T) {
	req := testRequest(t)

	want := []string{
		"generate",
		"--node", "rpi_bush_point",
		"--start", "2026-01-15T22:00:00-08:00",
		"--end", "2026-01-16T00:00:00-08:00",
		"--delta-t", "60",
		"--output-dir", "/data/hydrophone=bush_point/date=2026-01-15",
		"--format", "json",
		"--delta-f", "10",
		"--mode", "safe",
	}
	if got := buildArgs(req); !reflect.DeepEqual(got, want) {
		t.Errorf("buildArgs mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestBuildArgsOctaveBands(t *testing.T) {
	req := testRequest(t)
	req.Resolution.Bands = 3

	args := buildArgs(req)
	found := false
	for i, arg := range args {
		if arg == "--bands" && i+1 < len(args) && args[i+1] == "3" {
			found = true
		}
		if arg == "--delta-f" {
			t.Error("Expected --delta-f to be omitted when bands are set")
		}
	}
	if !found {
		t.Error("Expected --bands 3 in arguments")
	}
}

// writeStub creates an executable script standing in for the analysis tool
func writeStub(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "noise-analysis")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("Failed to write stub tool: %v", err)
	}
	return path
}

func TestCommandPipelineGenerate(t *testing.T) {
	binary := writeStub(t, `echo '{"psd_path":"/out/psd.parquet","broadband_path":"/out/broadband.parquet"}'`)
	p := NewCommandPipeline(&config.PipelineConfig{Binary: binary})

	result, err := p.Generate(context.Background(), testRequest(t))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result.PSDPath != "/out/psd.parquet" {
		t.Errorf("Unexpected PSD path: %s", result.PSDPath)
	}
	if result.BroadbandPath != "/out/broadband.parquet" {
		t.Errorf("Unexpected broadband path: %s", result.BroadbandPath)
	}
}

func TestCommandPipelineToolFailure(t *testing.T) {
	binary := writeStub(t, `echo "no audio for range" >&2; exit 1`)
	p := NewCommandPipeline(&config.PipelineConfig{Binary: binary})

	_, err := p.Generate(context.Background(), testRequest(t))
	if err == nil {
		t.Fatal("Expected error from failing tool")
	}
	if !errors.IsType(err, errors.ErrorTypePipeline) {
		t.Errorf("Expected pipeline error, got %v", err)
	}
}

func TestCommandPipelineMalformedOutput(t *testing.T) {
	binary := writeStub(t, `echo "not json"`)
	p := NewCommandPipeline(&config.PipelineConfig{Binary: binary})

	_, err := p.Generate(context.Background(), testRequest(t))
	if err == nil {
		t.Fatal("Expected error for malformed output")
	}
	if !errors.IsType(err, errors.ErrorTypePipeline) {
		t.Errorf("Expected pipeline error, got %v", err)
	}
}

func TestCommandPipelineIncompleteResult(t *testing.T) {
	binary := writeStub(t, `echo '{"psd_path":"/out/psd.parquet"}'`)
	p := NewCommandPipeline(&config.PipelineConfig{Binary: binary})

	_, err := p.Generate(context.Background(), testRequest(t))
	if err == nil {
		t.Fatal("Expected error for incomplete result")
	}
	if !errors.IsType(err, errors.ErrorTypePipeline) {
		t.Errorf("Expected pipeline error, got %v", err)
	}
}

func TestCommandPipelineTimeout(t *testing.T) {
	binary := writeStub(t, `sleep 5`)
	p := NewCommandPipeline(&config.PipelineConfig{Binary: binary, Timeout: 50 * time.Millisecond})

	start := time.Now()
	_, err := p.Generate(context.Background(), testRequest(t))
	if err == nil {
		t.Fatal("Expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Timeout not enforced, took %v", elapsed)
	}
}
