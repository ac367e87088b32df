package model

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func sampleNode() *PageNode {
	return &PageNode{
		ID:            "element_1",
		Type:          NodeInput,
		TagName:       "input",
		Attributes:    map[string]string{"type": "email", "id": "email"},
		XPath:         "//input[@id='email']",
		CSSSelector:   "#email",
		IsVisible:     true,
		IsInteractive: true,
		PageURL:       "https://example.com/signup",
		CreatedAt:     Now(),
	}
}

func TestNodeClone(t *testing.T) {
	n := sampleNode()
	n.Children = []string{"element_2"}
	c := n.Clone()

	c.Attributes["type"] = "text"
	c.Children[0] = "element_9"

	if n.Attributes["type"] != "email" {
		t.Errorf("clone mutation leaked into attributes: %q", n.Attributes["type"])
	}
	if n.Children[0] != "element_2" {
		t.Errorf("clone mutation leaked into children: %q", n.Children[0])
	}

	var nilNode *PageNode
	if nilNode.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestStructureLookup(t *testing.T) {
	s := PageStructure{
		ID:  "s1",
		URL: "https://example.com",
		Nodes: []PageNode{
			{ID: "element_1", IsInteractive: true},
			{ID: "element_2"},
			{ID: "element_3", IsInteractive: true},
		},
	}

	if s.Node("element_2") == nil {
		t.Error("expected to find element_2")
	}
	if s.Node("missing") != nil {
		t.Error("expected nil for missing node")
	}

	got := s.InteractiveNodes()
	if len(got) != 2 || got[0].ID != "element_1" || got[1].ID != "element_3" {
		t.Errorf("interactive nodes wrong: %+v", got)
	}
}

func TestTestCaseMutation(t *testing.T) {
	tc := NewTestCase("signup", "", TestFunctional, PriorityHigh, "https://example.com")
	if tc.ID == "" {
		t.Fatal("expected generated id")
	}
	if tc.TestDataCount() != 0 {
		t.Errorf("fresh case should have 0 rows, got %d", tc.TestDataCount())
	}

	vp := TestViewpoint{
		ID:       "vp1",
		Strategy: StrategyBasic,
		TestDataList: []TestData{
			{ID: "d1", InputValue: "a"},
			{ID: "d2", InputValue: "b"},
		},
	}
	tc.AddViewpoint(vp)
	tc.AddViewpoint(TestViewpoint{ID: "vp2", TestDataList: []TestData{{ID: "d3"}}})

	if tc.TestDataCount() != 3 {
		t.Errorf("expected 3 rows, got %d", tc.TestDataCount())
	}
	if tc.Viewpoint("vp2") == nil {
		t.Error("expected to find vp2")
	}

	tc.RemoveViewpoint("vp1")
	if tc.Viewpoint("vp1") != nil {
		t.Error("vp1 should be gone")
	}
	if tc.TestDataCount() != 1 {
		t.Errorf("expected 1 row after removal, got %d", tc.TestDataCount())
	}

	got := tc.Viewpoint("vp2")
	got.RemoveTestData("d3")
	if tc.TestDataCount() != 0 {
		t.Errorf("expected 0 rows, got %d", tc.TestDataCount())
	}
}

func TestTestCaseJSONRoundTrip(t *testing.T) {
	tc := NewTestCase("roundtrip", "desc", TestUI, PriorityCritical, "https://example.com")
	tc.AddViewpoint(TestViewpoint{
		ID:         "vp1",
		Name:       "input basic test",
		Strategy:   StrategyBoundary,
		TargetNode: sampleNode(),
		TestDataList: []TestData{
			{
				ID:            "d1",
				InputValue:    "test@example.com",
				ExpectedValue: "test@example.com",
				Assertions: []AssertionSpec{
					{Name: "element_visible"},
					{Name: "value_equals", Params: map[string]string{"expected": "test@example.com"}},
				},
				Description: "boundary test: standard email",
				CreatedAt:   Now(),
			},
		},
		CreatedAt: Now(),
	})

	data, err := json.Marshal(tc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got TestCase
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(*tc, got) {
		t.Errorf("round trip changed the case:\nbefore: %+v\nafter:  %+v", *tc, got)
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		statuses []TestStatus
		want     TestStatus
	}{
		{"all passed", []TestStatus{StatusPassed, StatusPassed}, StatusPassed},
		{"empty", nil, StatusPassed},
		{"failed wins over error", []TestStatus{StatusPassed, StatusError, StatusFailed}, StatusFailed},
		{"error without failure", []TestStatus{StatusPassed, StatusError}, StatusError},
		{"single failure", []TestStatus{StatusFailed}, StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExecution("c1", "case")
			for _, s := range tt.statuses {
				e.StepResults = append(e.StepResults, TestStepResult{Status: s})
			}
			if got := e.Aggregate(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCalculateSummary(t *testing.T) {
	e := NewExecution("c1", "case")
	e.StepResults = []TestStepResult{
		{Status: StatusPassed},
		{Status: StatusFailed},
		{Status: StatusPassed},
		{Status: StatusError},
	}
	e.EndTime = e.StartTime.Add(3 * time.Second)
	e.CalculateSummary()

	if e.TotalSteps != 4 || e.PassedSteps != 2 || e.FailedSteps != 1 {
		t.Errorf("summary wrong: total=%d passed=%d failed=%d", e.TotalSteps, e.PassedSteps, e.FailedSteps)
	}
	if e.Duration != 3.0 {
		t.Errorf("duration = %v, want 3.0", e.Duration)
	}
}

func TestStatusTerminal(t *testing.T) {
	terminal := []TestStatus{StatusPassed, StatusFailed, StatusSkipped, StatusError}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []TestStatus{StatusPending, StatusRunning} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
