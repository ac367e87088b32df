package browser

import (
	"strings"

	"github.com/ciciliostudio/viewpoint/internal/model"
)

// Classify maps an element's tag name and attributes to a node type. The
// heuristics favor testable form elements: anything that behaves like a
// button (role, onclick, button-ish class) is classified as one.
func Classify(tagName string, attrs map[string]string) model.NodeType {
	tag := strings.ToLower(tagName)

	switch tag {
	case "form":
		return model.NodeForm
	case "input":
		switch strings.ToLower(attrs["type"]) {
		case "checkbox":
			return model.NodeCheckbox
		case "radio":
			return model.NodeRadio
		case "submit", "button", "reset":
			return model.NodeButton
		default:
			return model.NodeInput
		}
	case "button":
		return model.NodeButton
	case "select":
		return model.NodeSelect
	case "textarea":
		return model.NodeInput
	case "a":
		if buttonLike(attrs) {
			return model.NodeButton
		}
		return model.NodeLink
	case "img":
		return model.NodeImage
	case "table":
		return model.NodeTable
	case "div":
		if buttonLike(attrs) || attrs["tabindex"] != "" {
			return model.NodeButton
		}
		return model.NodeDiv
	case "span":
		if buttonLike(attrs) {
			return model.NodeButton
		}
		return model.NodeSpan
	case "p", "h1", "h2", "h3", "h4", "h5", "h6", "label":
		return model.NodeText
	default:
		if buttonLike(attrs) || attrs["tabindex"] != "" {
			return model.NodeButton
		}
		return model.NodeOther
	}
}

func buttonLike(attrs map[string]string) bool {
	if attrs["role"] == "button" || attrs["onclick"] != "" {
		return true
	}
	return strings.Contains(strings.ToLower(attrs["class"]), "button")
}

// Interactive reports whether a node type accepts user interaction.
func Interactive(nt model.NodeType) bool {
	switch nt {
	case model.NodeButton, model.NodeInput, model.NodeLink, model.NodeSelect, model.NodeCheckbox, model.NodeRadio:
		return true
	}
	return false
}
