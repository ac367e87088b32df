// Package assertion holds the static registry of assertion checks. Each
// check is registered once at process start with its metadata (parameter
// schema, applicable node types) and an evaluator over stringified
// actual/expected values.
package assertion

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ciciliostudio/viewpoint/internal/model"
)

// Kind groups assertions by what they inspect.
type Kind string

const (
	KindElement    Kind = "element"
	KindValue      Kind = "value"
	KindText       Kind = "text"
	KindLength     Kind = "length"
	KindFormat     Kind = "format"
	KindValidation Kind = "validation"
)

// Param describes one parameter an assertion accepts.
type Param struct {
	Type        string
	Description string
	Default     string
}

// EvalFunc decides whether the check passes. Params carry spec-level
// arguments such as a length limit or a regex pattern.
type EvalFunc func(actual, expected string, params map[string]string) bool

// Check is one registered assertion.
type Check struct {
	Name        string
	Description string
	Kind        Kind
	Params      map[string]Param
	NodeTypes   []model.NodeType
	Eval        EvalFunc
}

var registry = map[string]Check{}

func register(c Check) {
	registry[c.Name] = c
}

// Lookup returns the named check and whether it exists.
func Lookup(name string) (Check, bool) {
	c, ok := registry[name]
	return c, ok
}

// All returns every registered check, in no particular order.
func All() []Check {
	out := make([]Check, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	return out
}

// ForNodeType returns the checks applicable to the given node type.
func ForNodeType(nt model.NodeType) []Check {
	var out []Check
	for _, c := range registry {
		for _, t := range c.NodeTypes {
			if t == nt {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Evaluate runs the named check against the observed value and returns a
// timed result. An unknown name yields a failed result, never a panic.
func Evaluate(name, actual, expected, message string, params map[string]string) model.AssertionResult {
	start := time.Now()
	res := model.AssertionResult{
		AssertionType: name,
		ExpectedValue: expected,
		ActualValue:   actual,
		Message:       message,
	}
	check, ok := registry[name]
	if !ok {
		res.Passed = false
		res.Message = fmt.Sprintf("unsupported assertion: %s", name)
		res.ExecutionTime = time.Since(start).Seconds()
		return res
	}
	res.Passed = check.Eval(actual, expected, params)
	if res.Message == "" {
		if res.Passed {
			res.Message = check.Description
		} else {
			res.Message = fmt.Sprintf("%s: expected %q, got %q", check.Description, expected, actual)
		}
	}
	res.ExecutionTime = time.Since(start).Seconds()
	return res
}

func isTrue(s string) bool {
	return s == "true"
}

func paramInt(params map[string]string, key string, def int) int {
	if v, ok := params[key]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func init() {
	interactive := []model.NodeType{model.NodeInput, model.NodeButton, model.NodeSelect, model.NodeCheckbox, model.NodeRadio, model.NodeLink}
	textual := []model.NodeType{model.NodeInput, model.NodeText, model.NodeButton, model.NodeLink}

	register(Check{
		Name: "element_visible", Description: "element is visible", Kind: KindElement,
		NodeTypes: interactive,
		Eval: func(actual, _ string, _ map[string]string) bool {
			return isTrue(actual)
		},
	})
	register(Check{
		Name: "element_enabled", Description: "element is enabled", Kind: KindElement,
		NodeTypes: interactive,
		Eval: func(actual, _ string, _ map[string]string) bool {
			return isTrue(actual)
		},
	})
	register(Check{
		Name: "element_clickable", Description: "element is clickable", Kind: KindElement,
		NodeTypes: []model.NodeType{model.NodeButton, model.NodeLink, model.NodeRadio},
		Eval: func(actual, _ string, _ map[string]string) bool {
			return isTrue(actual)
		},
	})
	register(Check{
		Name: "value_equals", Description: "value equals expected", Kind: KindValue,
		NodeTypes: []model.NodeType{model.NodeInput},
		Eval: func(actual, expected string, params map[string]string) bool {
			if want, ok := params["expected"]; ok {
				return actual == want
			}
			return actual == expected
		},
	})
	register(Check{
		Name: "value_contains", Description: "value contains expected", Kind: KindValue,
		NodeTypes: []model.NodeType{model.NodeInput},
		Eval: func(actual, expected string, _ map[string]string) bool {
			return actual != "" && strings.Contains(actual, expected)
		},
	})
	register(Check{
		Name: "value_length", Description: "value length equals expected", Kind: KindLength,
		NodeTypes: []model.NodeType{model.NodeInput},
		Eval: func(actual, expected string, _ map[string]string) bool {
			n, err := strconv.Atoi(expected)
			return err == nil && len(actual) == n
		},
	})
	register(Check{
		Name: "max_length", Description: "value within maximum length", Kind: KindValidation,
		Params:    map[string]Param{"max_length": {Type: "int", Description: "maximum length", Default: "255"}},
		NodeTypes: []model.NodeType{model.NodeInput},
		Eval: func(actual, _ string, params map[string]string) bool {
			return len(actual) <= paramInt(params, "max_length", 255)
		},
	})
	register(Check{
		Name: "min_length", Description: "value meets minimum length", Kind: KindValidation,
		Params:    map[string]Param{"min_length": {Type: "int", Description: "minimum length", Default: "0"}},
		NodeTypes: []model.NodeType{model.NodeInput},
		Eval: func(actual, _ string, params map[string]string) bool {
			return len(actual) >= paramInt(params, "min_length", 0)
		},
	})
	register(Check{
		Name: "value_format", Description: "value matches pattern", Kind: KindFormat,
		Params: map[string]Param{
			"pattern":        {Type: "string", Description: "regular expression"},
			"case_sensitive": {Type: "bool", Description: "match case", Default: "false"},
		},
		NodeTypes: []model.NodeType{model.NodeInput},
		Eval: func(actual, _ string, params map[string]string) bool {
			pattern := params["pattern"]
			if pattern == "" {
				return true
			}
			if !isTrue(params["case_sensitive"]) {
				pattern = "(?i)" + pattern
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				return false
			}
			return actual != "" && re.MatchString(actual)
		},
	})
	register(Check{
		Name: "required_field", Description: "required field is filled", Kind: KindValidation,
		NodeTypes: []model.NodeType{model.NodeInput},
		Eval: func(actual, _ string, _ map[string]string) bool {
			return strings.TrimSpace(actual) != ""
		},
	})
	register(Check{
		Name: "text_equals", Description: "text equals expected", Kind: KindText,
		NodeTypes: textual,
		Eval: func(actual, expected string, _ map[string]string) bool {
			return actual == expected
		},
	})
	register(Check{
		Name: "text_contains", Description: "text contains expected", Kind: KindText,
		NodeTypes: textual,
		Eval: func(actual, expected string, params map[string]string) bool {
			want := expected
			if v, ok := params["expected"]; ok {
				want = v
			}
			return actual != "" && strings.Contains(actual, want)
		},
	})
	register(Check{
		Name: "option_selected", Description: "option is selected", Kind: KindValue,
		NodeTypes: []model.NodeType{model.NodeSelect},
		Eval: func(actual, expected string, params map[string]string) bool {
			if want, ok := params["expected"]; ok {
				return actual == want
			}
			return actual == expected
		},
	})
	register(Check{
		Name: "option_available", Description: "option exists in list", Kind: KindValidation,
		NodeTypes: []model.NodeType{model.NodeSelect},
		Eval: func(actual, expected string, _ map[string]string) bool {
			for _, opt := range strings.Split(actual, ",") {
				if strings.TrimSpace(opt) == expected {
					return true
				}
			}
			return false
		},
	})
	register(Check{
		Name: "checkbox_checked", Description: "checkbox is checked", Kind: KindElement,
		NodeTypes: []model.NodeType{model.NodeCheckbox},
		Eval: func(actual, _ string, _ map[string]string) bool {
			return isTrue(actual)
		},
	})
	register(Check{
		Name: "page_navigated", Description: "page navigated", Kind: KindElement,
		Params:    map[string]Param{"timeout": {Type: "int", Description: "wait in milliseconds", Default: "5000"}},
		NodeTypes: []model.NodeType{model.NodeButton, model.NodeLink},
		Eval: func(actual, _ string, _ map[string]string) bool {
			return isTrue(actual)
		},
	})
	register(Check{
		Name: "image_loaded", Description: "image loaded", Kind: KindElement,
		NodeTypes: []model.NodeType{model.NodeImage},
		Eval: func(actual, _ string, _ map[string]string) bool {
			return isTrue(actual)
		},
	})
	register(Check{
		Name: "no_error_message", Description: "no error message present", Kind: KindValidation,
		NodeTypes: interactive,
		Eval: func(actual, _ string, _ map[string]string) bool {
			return strings.TrimSpace(actual) == ""
		},
	})
}
