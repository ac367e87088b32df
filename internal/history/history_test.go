package history

import (
	"testing"
	"time"

	"github.com/ciciliostudio/viewpoint/internal/model"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func finishedExec(id string, status model.TestStatus, start time.Time) *model.TestExecution {
	exec := model.NewExecution("case-1", "signup form")
	exec.ID = id
	exec.Status = status
	exec.StartTime = start
	exec.EndTime = start.Add(2 * time.Second)
	exec.TotalSteps = 4
	exec.PassedSteps = 3
	exec.FailedSteps = 1
	exec.Duration = 2.0
	return exec
}

func TestRecordAndList(t *testing.T) {
	idx := openTestIndex(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i, status := range []model.TestStatus{model.StatusPassed, model.StatusFailed, model.StatusPassed} {
		exec := finishedExec(string(rune('a'+i)), status, base.Add(time.Duration(i)*time.Minute))
		if err := idx.Record(exec); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	entries, err := idx.List(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	// Newest first.
	if entries[0].ExecutionID != "c" || entries[2].ExecutionID != "a" {
		t.Errorf("wrong order: %s..%s", entries[0].ExecutionID, entries[2].ExecutionID)
	}
	if entries[0].TestCaseName != "signup form" || entries[0].TotalSteps != 4 {
		t.Errorf("entry fields wrong: %+v", entries[0])
	}

	limited, err := idx.List(2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit ignored: got %d", len(limited))
	}
}

func TestRecordReplacesSameExecution(t *testing.T) {
	idx := openTestIndex(t)
	base := time.Now().UTC()

	exec := finishedExec("x", model.StatusFailed, base)
	if err := idx.Record(exec); err != nil {
		t.Fatalf("record: %v", err)
	}
	exec.Status = model.StatusPassed
	if err := idx.Record(exec); err != nil {
		t.Fatalf("re-record: %v", err)
	}

	entries, err := idx.List(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].Status != model.StatusPassed {
		t.Errorf("expected single passed entry, got %+v", entries)
	}
}

func TestForCase(t *testing.T) {
	idx := openTestIndex(t)
	base := time.Now().UTC()

	a := finishedExec("a", model.StatusPassed, base)
	if err := idx.Record(a); err != nil {
		t.Fatalf("record: %v", err)
	}
	b := finishedExec("b", model.StatusPassed, base.Add(time.Minute))
	b.TestCaseID = "case-2"
	if err := idx.Record(b); err != nil {
		t.Fatalf("record: %v", err)
	}

	entries, err := idx.ForCase("case-2")
	if err != nil {
		t.Fatalf("for case: %v", err)
	}
	if len(entries) != 1 || entries[0].ExecutionID != "b" {
		t.Errorf("got %+v", entries)
	}
}

func TestSummarize(t *testing.T) {
	idx := openTestIndex(t)
	base := time.Now().UTC()

	statuses := []model.TestStatus{
		model.StatusPassed, model.StatusPassed, model.StatusPassed,
		model.StatusFailed, model.StatusError,
	}
	for i, status := range statuses {
		exec := finishedExec(string(rune('a'+i)), status, base.Add(time.Duration(i)*time.Second))
		if err := idx.Record(exec); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	s, err := idx.Summarize()
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if s.TotalRuns != 5 || s.Passed != 3 || s.Failed != 1 || s.Errored != 1 {
		t.Errorf("stats wrong: %+v", s)
	}
	if s.SuccessRate != 60.0 {
		t.Errorf("success rate = %v, want 60", s.SuccessRate)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	idx := openTestIndex(t)
	s, err := idx.Summarize()
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if s.TotalRuns != 0 || s.SuccessRate != 0 {
		t.Errorf("empty stats wrong: %+v", s)
	}
}
