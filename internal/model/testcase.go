package model

import (
	"time"

	"github.com/google/uuid"
)

// TestType categorizes what a test case exercises.
type TestType string

const (
	TestFunctional  TestType = "functional"
	TestUI          TestType = "ui"
	TestPerformance TestType = "performance"
	TestSecurity    TestType = "security"
	TestIntegration TestType = "integration"
)

// TestPriority orders cases for planning and reporting.
type TestPriority string

const (
	PriorityLow      TestPriority = "low"
	PriorityMedium   TestPriority = "medium"
	PriorityHigh     TestPriority = "high"
	PriorityCritical TestPriority = "critical"
)

// Strategy tags the data-generation policy behind a viewpoint.
type Strategy string

const (
	StrategyBasic         Strategy = "basic"
	StrategyBoundary      Strategy = "boundary"
	StrategyEquivalence   Strategy = "equivalence"
	StrategyNegative      Strategy = "negative"
	StrategyComprehensive Strategy = "comprehensive"
)

// AssertionSpec names an assertion check and its parameters. Parameters are
// kept as strings so that a spec serializes byte-identically on every pass.
type AssertionSpec struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`
}

// TestData is one generated row: the value to drive into the page, the
// value expected back, and the ordered checks that decide the verdict.
type TestData struct {
	ID            string          `json:"id"`
	InputValue    string          `json:"input_value"`
	ExpectedValue string          `json:"expected_value"`
	Assertions    []AssertionSpec `json:"assertions"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TestViewpoint groups the data rows produced by one strategy for one
// target node. TargetNode is a point-in-time snapshot, not a live link.
type TestViewpoint struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Strategy     Strategy   `json:"strategy"`
	Description  string     `json:"description"`
	TargetNode   *PageNode  `json:"target_node"`
	TestDataList []TestData `json:"test_data_list"`
	CreatedAt    time.Time  `json:"created_at"`
}

// AddTestData appends a row to the viewpoint.
func (v *TestViewpoint) AddTestData(td TestData) {
	v.TestDataList = append(v.TestDataList, td)
}

// RemoveTestData deletes the row with the given id, if present.
func (v *TestViewpoint) RemoveTestData(id string) {
	kept := v.TestDataList[:0]
	for _, td := range v.TestDataList {
		if td.ID != id {
			kept = append(kept, td)
		}
	}
	v.TestDataList = kept
}

// TestCase is an ordered collection of viewpoints generated against one
// page. UpdatedAt is bumped on every mutation.
type TestCase struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	TestType    TestType        `json:"test_type"`
	Priority    TestPriority    `json:"priority"`
	PageURL     string          `json:"page_url"`
	Viewpoints  []TestViewpoint `json:"viewpoints"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewTestCase constructs an empty case with fresh timestamps.
func NewTestCase(name, description string, tt TestType, prio TestPriority, pageURL string) *TestCase {
	now := Now()
	return &TestCase{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		TestType:    tt,
		Priority:    prio,
		PageURL:     pageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AddViewpoint appends a viewpoint and bumps UpdatedAt.
func (c *TestCase) AddViewpoint(vp TestViewpoint) {
	c.Viewpoints = append(c.Viewpoints, vp)
	c.UpdatedAt = Now()
}

// RemoveViewpoint deletes the viewpoint with the given id and bumps
// UpdatedAt.
func (c *TestCase) RemoveViewpoint(id string) {
	kept := c.Viewpoints[:0]
	for _, vp := range c.Viewpoints {
		if vp.ID != id {
			kept = append(kept, vp)
		}
	}
	c.Viewpoints = kept
	c.UpdatedAt = Now()
}

// Viewpoint returns the viewpoint with the given id, or nil.
func (c *TestCase) Viewpoint(id string) *TestViewpoint {
	for i := range c.Viewpoints {
		if c.Viewpoints[i].ID == id {
			return &c.Viewpoints[i]
		}
	}
	return nil
}

// TestDataCount is the total number of data rows across all viewpoints.
func (c *TestCase) TestDataCount() int {
	n := 0
	for _, vp := range c.Viewpoints {
		n += len(vp.TestDataList)
	}
	return n
}
