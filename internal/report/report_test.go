package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/ciciliostudio/viewpoint/internal/model"
)

func sampleExecution() *model.TestExecution {
	exec := model.NewExecution("case-1", "signup form")
	exec.Status = model.StatusFailed
	exec.EndTime = exec.StartTime.Add(2 * 1e9)
	exec.StepResults = []model.TestStepResult{
		{
			StepID: "st1", StepNumber: 1, Action: "fill", Status: model.StatusPassed,
			InputData: "test@example.com", OutputData: "test@example.com", Duration: 0.41,
			Assertions: []model.AssertionResult{
				{AssertionType: "element_visible", Passed: true, Message: "element is visible"},
				{AssertionType: "value_equals", Passed: true, Message: "value equals expected"},
			},
		},
		{
			StepID: "st2", StepNumber: 2, Action: "fill", Status: model.StatusFailed,
			InputData: "", ErrorMessage: "value mismatch", Duration: 0.12,
			Assertions: []model.AssertionResult{
				{AssertionType: "value_equals", Passed: false, Message: "value mismatch"},
			},
		},
	}
	exec.CalculateSummary()
	return exec
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	exec := sampleExecution()
	if err := RenderHTML(&buf, exec); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"signup form",
		exec.ID,
		"badge failed",
		"test@example.com",
		"value mismatch",
		"2 checks",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderHTMLEscapes(t *testing.T) {
	exec := sampleExecution()
	exec.StepResults[0].InputData = "<script>alert('xss')</script>"

	var buf bytes.Buffer
	if err := RenderHTML(&buf, exec); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "<script>alert") {
		t.Error("input data must be HTML-escaped")
	}
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCSV(&buf, sampleExecution()); err != nil {
		t.Fatalf("render: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 steps", len(records))
	}
	if records[0][0] != "step" || records[0][6] != "error" {
		t.Errorf("header wrong: %v", records[0])
	}
	if records[1][1] != "fill" || records[1][2] != "passed" {
		t.Errorf("first step row wrong: %v", records[1])
	}
	if records[2][6] != "value mismatch" {
		t.Errorf("error column wrong: %v", records[2])
	}
}

func TestRenderCaseCSV(t *testing.T) {
	tc := model.NewTestCase("signup case", "", model.TestFunctional, model.PriorityMedium, "http://localhost:3000/signup")
	tc.AddViewpoint(model.TestViewpoint{
		ID: "vp1", Name: "email basic", Strategy: model.StrategyBasic,
		TargetNode: &model.PageNode{ID: "email", Type: model.NodeInput},
		TestDataList: []model.TestData{
			{
				ID: "td1", InputValue: "test@example.com", ExpectedValue: "test@example.com",
				Assertions: []model.AssertionSpec{
					{Name: "element_visible"},
					{Name: "no_error_message"},
				},
				Description: "valid email",
			},
		},
	})

	var buf bytes.Buffer
	if err := RenderCaseCSV(&buf, tc); err != nil {
		t.Fatalf("render: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want header + 1 row", len(records))
	}
	row := records[1]
	if row[0] != "email basic" || row[1] != "basic" || row[2] != "email" {
		t.Errorf("viewpoint columns wrong: %v", row)
	}
	if row[5] != "element_visible;no_error_message" {
		t.Errorf("assertion column wrong: %q", row[5])
	}
}

func TestRenderCaseJSON(t *testing.T) {
	tc := model.NewTestCase("signup case", "", model.TestFunctional, model.PriorityMedium, "http://localhost:3000/signup")

	var buf bytes.Buffer
	if err := RenderCaseJSON(&buf, tc); err != nil {
		t.Fatalf("render: %v", err)
	}
	var decoded model.TestCase
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if decoded.ID != tc.ID || decoded.Name != tc.Name {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}

func TestWriterFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	exec := sampleExecution()

	for _, render := range []struct {
		name string
		fn   func(*model.TestExecution) (string, error)
		ext  string
	}{
		{"html", w.HTML, ".html"},
		{"json", w.JSON, ".json"},
		{"csv", w.CSV, ".csv"},
	} {
		t.Run(render.name, func(t *testing.T) {
			path, err := render.fn(exec)
			if err != nil {
				t.Fatalf("write: %v", err)
			}
			if !strings.HasSuffix(path, render.ext) {
				t.Errorf("path %q should end with %s", path, render.ext)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stat: %v", err)
			}
			if info.Size() == 0 {
				t.Error("report file is empty")
			}
		})
	}
}
