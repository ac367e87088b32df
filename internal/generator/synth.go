package generator

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ciciliostudio/viewpoint/internal/model"
)

var (
	// ErrStructureNotFound is returned when synthesis is asked to work on a
	// structure that does not exist.
	ErrStructureNotFound = errors.New("page structure not found")
	// ErrNodesNotFound is returned when none of the requested node ids
	// resolve inside the structure.
	ErrNodesNotFound = errors.New("no selected nodes found in structure")
)

// strategyOrder fixes the viewpoint order inside a generated case.
var strategyOrder = []model.Strategy{
	model.StrategyBasic,
	model.StrategyBoundary,
	model.StrategyEquivalence,
	model.StrategyNegative,
}

// Synthesize builds a complete test case for the selected nodes of a page
// structure. Each node contributes up to four viewpoints, one per strategy
// in fixed order; strategies that produce no rows contribute nothing.
// Synthesis has no persistence side effect.
func Synthesize(structure *model.PageStructure, nodeIDs []string, name string, tt model.TestType, prio model.TestPriority, description string) (*model.TestCase, error) {
	if structure == nil {
		return nil, ErrStructureNotFound
	}

	var selected []*model.PageNode
	for _, id := range nodeIDs {
		if n := structure.Node(id); n != nil {
			selected = append(selected, n)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNodesNotFound, nodeIDs)
	}

	tc := model.NewTestCase(name, description, tt, prio, structure.URL)
	for _, node := range selected {
		for _, strat := range strategyOrder {
			if vp := buildViewpoint(node, strat); vp != nil {
				tc.Viewpoints = append(tc.Viewpoints, *vp)
			}
		}
	}
	return tc, nil
}

// buildViewpoint generates one viewpoint for a node under one strategy, or
// nil when the strategy yields no rows for that node type.
func buildViewpoint(node *model.PageNode, strat model.Strategy) *model.TestViewpoint {
	rows := Generate(node, strat)
	if len(rows) == 0 {
		return nil
	}

	action := ActionForViewpoint(node.Type, strat)

	dataList := make([]model.TestData, 0, len(rows))
	for _, row := range rows {
		dataList = append(dataList, model.TestData{
			ID:            uuid.NewString(),
			InputValue:    row.Input,
			ExpectedValue: row.Expected,
			Assertions:    AssertionsFor(action, row.Expected),
			Description:   fmt.Sprintf("%s test: %s", strat, row.Description),
			CreatedAt:     model.Now(),
		})
	}

	return &model.TestViewpoint{
		ID:           uuid.NewString(),
		Name:         fmt.Sprintf("%s %s test", node.TagName, strat),
		Strategy:     strat,
		Description:  fmt.Sprintf("%s testing of %s element", strat, node.TagName),
		TargetNode:   node.Clone(),
		TestDataList: dataList,
		CreatedAt:    model.Now(),
	}
}
