// Package generator derives test cases from page nodes: per-type value
// class tables, the action/assertion selector, and the synthesizer that
// assembles viewpoints into a TestCase.
package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ciciliostudio/viewpoint/internal/model"
)

// Row is one generated (input, expected, description) triple.
type Row struct {
	Input       string
	Expected    string
	Description string
}

func echo(value, description string) Row {
	return Row{Input: value, Expected: value, Description: description}
}

// Generate produces the value-class rows for a node under the given
// strategy. Boundary, equivalence, and negative strategies apply only to
// input and select nodes; for every other node type they return nil, which
// the synthesizer treats as "no viewpoint", not as an error. Tables are
// static so regenerating for the same node is deterministic and diffable.
func Generate(node *model.PageNode, strategy model.Strategy) []Row {
	switch strategy {
	case model.StrategyBasic:
		return []Row{basicRow(node)}
	case model.StrategyBoundary:
		switch node.Type {
		case model.NodeInput:
			return inputBoundary(node, inputKind(node))
		case model.NodeSelect:
			return selectBoundary(node)
		}
	case model.StrategyEquivalence:
		switch node.Type {
		case model.NodeInput:
			return inputEquivalence(inputKind(node))
		case model.NodeSelect:
			return selectEquivalence(node)
		}
	case model.StrategyNegative:
		switch node.Type {
		case model.NodeInput:
			return inputNegative(inputKind(node))
		case model.NodeSelect:
			return selectNegative()
		}
	}
	return nil
}

// inputKind is the dispatch key for input sub-type tables: the lowercase
// HTML type attribute, defaulting to text.
func inputKind(node *model.PageNode) string {
	return strings.ToLower(node.Attr("type", "text"))
}

func basicRow(node *model.PageNode) Row {
	action := ActionFor(node.Type)
	input := basicInput(node, action)
	return Row{
		Input:       input,
		Expected:    basicExpected(node, action, input),
		Description: fmt.Sprintf("basic %s test", action),
	}
}

// basicInput picks the default sample value driven into the node for the
// basic strategy.
func basicInput(node *model.PageNode, action string) string {
	switch action {
	case ActionFill:
		switch inputKind(node) {
		case "email":
			return "test@example.com"
		case "password":
			return "testpassword123"
		case "number":
			return "123"
		case "tel":
			return "13800138000"
		default:
			return "sample text"
		}
	case ActionSelectOption:
		return node.Attr("value", "")
	default:
		return ""
	}
}

// basicExpected mirrors the input for fill-type actions and uses a fixed
// semantic sentinel for the rest.
func basicExpected(node *model.PageNode, action, input string) string {
	switch action {
	case ActionFill, ActionSelectOption:
		return input
	case ActionClick:
		return "clicked"
	case ActionCheck:
		return "checked"
	case ActionVerifyText:
		return node.TextContent
	case ActionVerifyImage:
		return "image displayed"
	default:
		return "completed"
	}
}

func inputBoundary(node *model.PageNode, kind string) []Row {
	switch kind {
	case "text":
		return []Row{
			echo("", "empty string"),
			echo("a", "single character"),
			echo(strings.Repeat("a", 50), "50 characters"),
			echo(strings.Repeat("a", 100), "100 characters"),
			echo(strings.Repeat("a", 255), "255 characters"),
			echo(strings.Repeat("a", 256), "256 characters (over limit)"),
			echo("测试数据", "multibyte characters"),
			echo("Test Data 123", "mixed characters"),
			echo("   ", "whitespace only"),
			echo("\t\n\r", "control characters"),
		}
	case "email":
		return []Row{
			echo("", "empty email"),
			echo("a@b.c", "shortest email"),
			echo("test@example.com", "standard email"),
			echo(strings.Repeat("a", 50)+"@example.com", "long local part"),
			echo("test@"+strings.Repeat("a", 100)+".com", "long domain"),
			echo("test@example", "invalid format"),
			echo("test.example.com", "missing at sign"),
			echo("@example.com", "missing local part"),
			echo("test@", "missing domain"),
			echo("test@.com", "missing second-level domain"),
		}
	case "number":
		return numberBoundary(node)
	case "password":
		return []Row{
			echo("", "empty password"),
			echo("a", "single character password"),
			echo(strings.Repeat("a", 8), "8 character password"),
			echo(strings.Repeat("a", 16), "16 character password"),
			echo(strings.Repeat("a", 32), "32 character password"),
			echo(strings.Repeat("a", 33), "33 character password (over limit)"),
			echo("Test123!", "standard password"),
			echo("密码测试123", "multibyte password"),
			echo("   ", "whitespace password"),
			echo("\t\n\r", "control character password"),
		}
	default:
		return []Row{
			echo("", "empty value"),
			echo("test", "standard input"),
			echo(strings.Repeat("a", 100), "long input"),
			echo("测试数据", "multibyte input"),
			echo("Test Data 123", "mixed input"),
		}
	}
}

// numberBoundary enumerates min−1..max+1 when the node declares integer min
// and max attributes. Non-numeric declarations silently fall back to the
// generic number table, matching the dispatch for undeclared bounds.
func numberBoundary(node *model.PageNode) []Row {
	minAttr, okMin := node.Attributes["min"]
	maxAttr, okMax := node.Attributes["max"]
	if okMin && okMax {
		minVal, errMin := strconv.Atoi(minAttr)
		maxVal, errMax := strconv.Atoi(maxAttr)
		if errMin == nil && errMax == nil {
			itoa := strconv.Itoa
			return []Row{
				echo(itoa(minVal-1), fmt.Sprintf("below minimum (%d)", minVal-1)),
				echo(itoa(minVal), fmt.Sprintf("minimum (%d)", minVal)),
				echo(itoa(minVal+1), fmt.Sprintf("above minimum (%d)", minVal+1)),
				echo(itoa(maxVal-1), fmt.Sprintf("below maximum (%d)", maxVal-1)),
				echo(itoa(maxVal), fmt.Sprintf("maximum (%d)", maxVal)),
				echo(itoa(maxVal+1), fmt.Sprintf("above maximum (%d)", maxVal+1)),
				echo("0", "zero"),
				echo("-1", "negative"),
				echo("abc", "non-numeric input"),
				echo("", "empty value"),
			}
		}
	}
	return []Row{
		echo("0", "zero"),
		echo("-1", "negative"),
		echo("999999", "large number"),
		echo("-999999", "large negative number"),
		echo("abc", "non-numeric input"),
		echo("", "empty value"),
	}
}

func inputEquivalence(kind string) []Row {
	switch kind {
	case "text":
		return []Row{
			echo("normal text", "normal text input"),
			echo("123", "numeric text"),
			echo("Test", "latin text"),
			echo("测试", "multibyte text"),
			echo("Test123", "mixed text"),
			echo("test@example.com", "text with special characters"),
			echo("   test   ", "surrounding whitespace"),
			echo("", "empty text"),
		}
	case "email":
		return []Row{
			echo("user@domain.com", "standard email format"),
			echo("user.name@domain.com", "dotted local part"),
			echo("user+tag@domain.com", "plus-tagged local part"),
			echo("user@sub.domain.com", "subdomain email"),
			echo("user@domain.co.uk", "multi-level TLD"),
			echo("", "empty email"),
			echo("invalid-email", "invalid email format"),
		}
	case "number":
		return []Row{
			echo("123", "positive integer"),
			echo("0", "zero"),
			echo("-123", "negative integer"),
			echo("123.45", "decimal"),
			echo("", "empty value"),
			echo("abc", "non-numeric"),
		}
	default:
		return []Row{
			echo("normal input", "normal input"),
			echo("", "empty input"),
			echo("special chars !@#", "special characters"),
		}
	}
}

func inputNegative(kind string) []Row {
	switch kind {
	case "text":
		return []Row{
			echo(strings.Repeat("a", 1000), "oversized text"),
			echo("<script>alert('xss')</script>", "script injection"),
			echo("' OR '1'='1", "SQL injection"),
			echo("../../etc/passwd", "path traversal"),
			echo("\x00\x01\x02", "binary data"),
			echo("‮‭", "unicode control characters"),
			echo(strings.Repeat("a", 10000), "extreme length text"),
			echo("", "empty value"),
			echo("   ", "whitespace only"),
		}
	case "email":
		return []Row{
			echo("<script>alert('xss')@example.com", "script injection local part"),
			echo("user@<script>alert('xss')</script>", "script injection domain"),
			echo("user@domain.com' OR '1'='1", "SQL injection suffix"),
			echo("user@domain.com; DROP TABLE users;", "SQL injection statement"),
			echo("user@domain.com\n<script>alert('xss')</script>", "newline injection"),
			echo("", "empty email"),
			echo("invalid", "invalid format"),
		}
	case "number":
		return []Row{
			echo("999999999999999999999999999999", "overflow number"),
			echo("-999999999999999999999999999999", "negative overflow number"),
			echo("1.234567890123456789", "excess precision decimal"),
			echo("abc", "non-numeric input"),
			echo("<script>alert('xss')</script>", "script injection"),
			echo("' OR '1'='1", "SQL injection"),
			echo("", "empty value"),
		}
	default:
		return []Row{
			echo("<script>alert('xss')</script>", "script injection"),
			echo("' OR '1'='1", "SQL injection"),
			echo("../../etc/passwd", "path traversal"),
			echo(strings.Repeat("a", 10000), "oversized input"),
			echo("", "empty value"),
		}
	}
}

// SelectOptions resolves the option values for a select node. Real option
// lists are not captured in the snapshot, so this falls back to a
// node-identity heuristic over well-known field names.
func SelectOptions(node *model.PageNode) []string {
	id := strings.ToLower(node.ID)
	switch {
	case strings.Contains(id, "gender"):
		return []string{"Male", "Female", "Other"}
	case strings.Contains(id, "country"):
		return []string{"USA", "China", "Japan", "UK", "Germany"}
	case strings.Contains(id, "state"):
		return []string{"California", "New York", "Texas", "Florida"}
	default:
		return []string{"Option 1", "Option 2", "Option 3"}
	}
}

func selectBoundary(node *model.PageNode) []Row {
	options := SelectOptions(node)
	if len(options) == 0 {
		return nil
	}
	rows := []Row{
		echo(options[0], "first option"),
		echo(options[len(options)-1], "last option"),
	}
	if len(options) > 2 {
		rows = append(rows, echo(options[len(options)/2], "middle option"))
	}
	return rows
}

func selectEquivalence(node *model.PageNode) []Row {
	var rows []Row
	for _, opt := range SelectOptions(node) {
		rows = append(rows, echo(opt, fmt.Sprintf("select option: %s", opt)))
	}
	return rows
}

func selectNegative() []Row {
	return []Row{
		echo("invalid_option", "invalid option"),
		echo("<script>alert('xss')</script>", "script injection option"),
		echo("' OR '1'='1", "SQL injection option"),
		echo("", "empty option"),
		echo("   ", "whitespace option"),
	}
}
