package generator

import (
	"github.com/ciciliostudio/viewpoint/internal/model"
)

// Interaction action verbs. Drive-able actions are delegated to the page
// driver; verify actions read state back and run assertions locally.
const (
	ActionClick        = "click"
	ActionFill         = "fill"
	ActionType         = "type"
	ActionSelectOption = "select_option"
	ActionCheck        = "check"
	ActionUncheck      = "uncheck"
	ActionVerifyText   = "verify_text"
	ActionVerifyImage  = "verify_image"
)

// ActionFor maps a node type to its single interaction action. The mapping
// is total; unknown types default to click.
func ActionFor(nt model.NodeType) string {
	switch nt {
	case model.NodeButton, model.NodeLink, model.NodeRadio:
		return ActionClick
	case model.NodeInput:
		return ActionFill
	case model.NodeSelect:
		return ActionSelectOption
	case model.NodeCheckbox:
		return ActionCheck
	case model.NodeText:
		return ActionVerifyText
	case model.NodeImage:
		return ActionVerifyImage
	default:
		return ActionClick
	}
}

// ActionForViewpoint derives the action a viewpoint's rows drive. Structural
// strategies always push data through fill or select; the basic strategy
// uses the node's own action.
func ActionForViewpoint(nt model.NodeType, strat model.Strategy) string {
	if strat != model.StrategyBasic {
		if nt == model.NodeSelect {
			return ActionSelectOption
		}
		return ActionFill
	}
	return ActionFor(nt)
}

// Driveable reports whether the action is performed through the driver's
// generic step executor rather than a local verification.
func Driveable(action string) bool {
	switch action {
	case ActionClick, ActionFill, ActionType, ActionSelectOption, ActionCheck, ActionUncheck:
		return true
	}
	return false
}

// AssertionsFor returns the ordered checklist attached to a step with the
// given action and expected value. Every checklist ends with the
// no-error-message check.
func AssertionsFor(action, expected string) []model.AssertionSpec {
	switch action {
	case ActionFill, ActionType:
		return []model.AssertionSpec{
			{Name: "element_visible"},
			{Name: "element_enabled"},
			{Name: "value_equals", Params: map[string]string{"expected": expected}},
			{Name: "no_error_message"},
		}
	case ActionClick:
		return []model.AssertionSpec{
			{Name: "element_clickable"},
			{Name: "element_visible"},
			{Name: "page_navigated", Params: map[string]string{"timeout": "5000"}},
			{Name: "no_error_message"},
		}
	case ActionSelectOption:
		return []model.AssertionSpec{
			{Name: "element_visible"},
			{Name: "element_enabled"},
			{Name: "option_selected", Params: map[string]string{"expected": expected}},
			{Name: "no_error_message"},
		}
	case ActionCheck, ActionUncheck:
		return []model.AssertionSpec{
			{Name: "element_visible"},
			{Name: "element_enabled"},
			{Name: "checkbox_checked"},
			{Name: "no_error_message"},
		}
	case ActionVerifyText:
		return []model.AssertionSpec{
			{Name: "element_visible"},
			{Name: "text_contains", Params: map[string]string{"expected": expected}},
			{Name: "no_error_message"},
		}
	case ActionVerifyImage:
		return []model.AssertionSpec{
			{Name: "element_visible"},
			{Name: "image_loaded"},
			{Name: "no_error_message"},
		}
	default:
		return []model.AssertionSpec{
			{Name: "element_visible"},
			{Name: "no_error_message"},
		}
	}
}
