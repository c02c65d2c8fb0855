package storage

import (
	"testing"
	"time"

	"testbridge/internal/config"
	"testbridge/internal/domain"
	"testbridge/internal/recorder"

	"github.com/google/go-cmp/cmp"
)

func newStorage(t *testing.T) *JSONStorage {
	t.Helper()
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	return NewJSONStorage(cfg)
}

func TestJSONStorage_Discovery(t *testing.T) {
	st := newStorage(t)

	payload := domain.DiscoveryPayload{
		CWD:    "/repo",
		Status: domain.StatusError,
		Errors: []string{"test case 0 (x): missing node id"},
		Tests: &domain.TestNode{
			Name: "repo", Path: "/repo", Type: domain.KindFolder, ID: "/repo",
			Children: []domain.Node{
				&domain.TestNode{
					Name: "f.py", Path: "/repo/f.py", Type: domain.KindFile, ID: "/repo/f.py",
					Children: []domain.Node{
						&domain.TestNode{
							Name: "C", Path: "/repo/f.py", Type: domain.KindClass, ID: "f.py::C",
							Children: []domain.Node{
								&domain.TestItem{Name: "t", Path: "/repo/f.py", Type: domain.KindTest, ID: "f.py::C::t", Lineno: "7", RunID: "f.py::C::t"},
							},
						},
					},
				},
				&domain.TestNode{Name: "empty", Path: "/repo/empty", Type: domain.KindFolder, ID: "/repo/empty", Children: []domain.Node{}},
			},
		},
	}

	if err := st.SaveDiscovery(payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded, err := st.LoadDiscovery()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(payload, *loaded); diff != "" {
		t.Errorf("discovery mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONStorage_Execution(t *testing.T) {
	st := newStorage(t)

	rec := recorder.New()
	rec.Record(domain.Outcome{TestID: "a", Outcome: domain.OutcomeSuccess, DurationSeconds: 0.1})
	rec.Record(domain.Outcome{TestID: "b", Outcome: domain.OutcomeFailure, Message: "assert False"})

	if err := st.SaveExecution(rec, []string{"c"}, 1500*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := st.LoadExecution()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Meta.Total != 2 || out.Meta.Failed != 1 || out.Meta.Passed != 1 {
		t.Errorf("unexpected meta: %+v", out.Meta)
	}
	if out.Meta.DurationSeconds != 1.5 {
		t.Errorf("expected 1.5s, got %v", out.Meta.DurationSeconds)
	}
	if diff := cmp.Diff([]string{"a", "b"}, out.Order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if out.Results["b"].Message != "assert False" {
		t.Errorf("unexpected result for b: %+v", out.Results["b"])
	}
	if diff := cmp.Diff([]string{"c"}, out.NotFound); diff != "" {
		t.Errorf("not found mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONStorage_LoadMissing(t *testing.T) {
	st := newStorage(t)
	if _, err := st.LoadDiscovery(); err == nil {
		t.Error("expected error when nothing was saved")
	}
	if _, err := st.LoadExecution(); err == nil {
		t.Error("expected error when nothing was saved")
	}
}
