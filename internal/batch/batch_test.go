package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"graph-tracer/internal/model"
)

// stubEngine records extraction calls and fails images on demand.
type stubEngine struct {
	mu     sync.Mutex
	seen   [][]byte
	failOn string
}

func (s *stubEngine) DetectColors(ctx context.Context, imageBytes []byte) ([]model.DetectedColor, error) {
	return nil, nil
}

func (s *stubEngine) ExtractCurves(ctx context.Context, imageBytes []byte, colorNames []string, axis model.GraphAxisConfig) (*model.ExtractionResult, error) {
	s.mu.Lock()
	s.seen = append(s.seen, imageBytes)
	s.mu.Unlock()

	if s.failOn != "" && string(imageBytes) == s.failOn {
		return nil, errors.New("extraction blew up")
	}
	return &model.ExtractionResult{Success: true, TotalPoints: len(imageBytes)}, nil
}

// writeJobImages creates one fake image file per name, contents = name.
func writeJobImages(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		if err := os.WriteFile(paths[i], []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return paths
}

var batchAxis = model.GraphAxisConfig{XMin: 0, XMax: 1, YMin: 0, YMax: 1}

func TestProcessRunsAllJobs(t *testing.T) {
	paths := writeJobImages(t, "a.png", "b.png", "c.png")
	jobs := make([]Job, len(paths))
	for i, p := range paths {
		jobs[i] = Job{ImageRef: p, Colors: []string{"red"}, Axis: batchAxis}
	}

	engine := &stubEngine{}
	results := NewProcessor(engine, WithConcurrency(2)).Process(context.Background(), jobs)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for _, r := range results {
		if r.Status != StatusSucceeded {
			t.Errorf("%s: status %s (%s), want succeeded", r.Job.ImageRef, r.Status, r.Err)
		}
		if r.Result == nil || !r.Result.Success {
			t.Errorf("%s: missing result", r.Job.ImageRef)
		}
	}
	if len(engine.seen) != 3 {
		t.Errorf("engine saw %d calls, want 3", len(engine.seen))
	}
}

func TestProcessPriorityOrder(t *testing.T) {
	paths := writeJobImages(t, "low.png", "high.png", "mid.png")
	jobs := []Job{
		{ImageRef: paths[0], Colors: []string{"red"}, Axis: batchAxis, Priority: 1},
		{ImageRef: paths[1], Colors: []string{"red"}, Axis: batchAxis, Priority: 10},
		{ImageRef: paths[2], Colors: []string{"red"}, Axis: batchAxis, Priority: 5},
	}

	engine := &stubEngine{}
	// Concurrency 1 makes dispatch order observable through the stub.
	results := NewProcessor(engine, WithConcurrency(1)).Process(context.Background(), jobs)

	wantOrder := []string{"high.png", "mid.png", "low.png"}
	for i, want := range wantOrder {
		if got := filepath.Base(results[i].Job.ImageRef); got != want {
			t.Errorf("result %d = %s, want %s", i, got, want)
		}
		if got := string(engine.seen[i]); got != want {
			t.Errorf("dispatch %d = %s, want %s", i, got, want)
		}
	}
}

func TestProcessIsolatesFailures(t *testing.T) {
	paths := writeJobImages(t, "good.png", "bad.png")
	jobs := []Job{
		{ImageRef: paths[0], Colors: []string{"red"}, Axis: batchAxis},
		{ImageRef: paths[1], Colors: []string{"red"}, Axis: batchAxis},
		{ImageRef: filepath.Join(t.TempDir(), "missing.png"), Colors: []string{"red"}, Axis: batchAxis},
	}

	engine := &stubEngine{failOn: "bad.png"}
	results := NewProcessor(engine, WithConcurrency(1)).Process(context.Background(), jobs)

	byName := make(map[string]Result, len(results))
	for _, r := range results {
		byName[filepath.Base(r.Job.ImageRef)] = r
	}

	if byName["good.png"].Status != StatusSucceeded {
		t.Errorf("good job failed: %s", byName["good.png"].Err)
	}
	if byName["bad.png"].Status != StatusFailed {
		t.Error("failing extraction not reported as failed")
	}
	if byName["missing.png"].Status != StatusFailed {
		t.Error("unreadable image not reported as failed")
	}
}

func TestLoadJobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	content := `
- imageRef: graphs/ic-vce.png
  colors: [red, blue]
  axis:
    xMin: 0
    xMax: 10
    yMin: 0.001
    yMax: 10
    yScaleType: log
  priority: 5
- imageRef: graphs/hfe.png
  colors: [green]
  preset: hfe-curve
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	jobs, err := LoadJobs(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	if jobs[0].Axis.YScaleType != model.ScaleLog {
		t.Errorf("yScaleType = %q, want log", jobs[0].Axis.YScaleType)
	}
	if jobs[0].Priority != 5 {
		t.Errorf("priority = %d, want 5", jobs[0].Priority)
	}
	if jobs[1].Preset != "hfe-curve" {
		t.Errorf("preset = %q, want hfe-curve", jobs[1].Preset)
	}
}

func TestLoadJobsErrors(t *testing.T) {
	if _, err := LoadJobs(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file should error")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadJobs(path); err == nil {
		t.Error("malformed yaml should error")
	}
}
