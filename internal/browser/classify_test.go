package browser

import (
	"testing"

	"github.com/ciciliostudio/viewpoint/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		tag   string
		attrs map[string]string
		want  model.NodeType
	}{
		{"form", "form", nil, model.NodeForm},
		{"text input", "input", map[string]string{"type": "text"}, model.NodeInput},
		{"typeless input", "input", nil, model.NodeInput},
		{"checkbox", "input", map[string]string{"type": "checkbox"}, model.NodeCheckbox},
		{"radio", "input", map[string]string{"type": "radio"}, model.NodeRadio},
		{"submit input", "input", map[string]string{"type": "submit"}, model.NodeButton},
		{"reset input", "input", map[string]string{"type": "RESET"}, model.NodeButton},
		{"button tag", "button", nil, model.NodeButton},
		{"select", "select", nil, model.NodeSelect},
		{"textarea", "textarea", nil, model.NodeInput},
		{"plain anchor", "a", map[string]string{"href": "/x"}, model.NodeLink},
		{"anchor with button role", "a", map[string]string{"role": "button"}, model.NodeButton},
		{"anchor with button class", "a", map[string]string{"class": "btn Button primary"}, model.NodeButton},
		{"img", "img", nil, model.NodeImage},
		{"table", "table", nil, model.NodeTable},
		{"plain div", "div", nil, model.NodeDiv},
		{"clickable div", "div", map[string]string{"onclick": "go()"}, model.NodeButton},
		{"focusable div", "div", map[string]string{"tabindex": "0"}, model.NodeButton},
		{"plain span", "span", nil, model.NodeSpan},
		{"span with role", "span", map[string]string{"role": "button"}, model.NodeButton},
		{"paragraph", "p", nil, model.NodeText},
		{"heading", "H2", nil, model.NodeText},
		{"label", "label", nil, model.NodeText},
		{"unknown tag", "custom-widget", nil, model.NodeOther},
		{"unknown clickable tag", "custom-widget", map[string]string{"onclick": "x()"}, model.NodeButton},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := tt.attrs
			if attrs == nil {
				attrs = map[string]string{}
			}
			if got := Classify(tt.tag, attrs); got != tt.want {
				t.Errorf("Classify(%q, %v) = %s, want %s", tt.tag, attrs, got, tt.want)
			}
		})
	}
}

func TestInteractive(t *testing.T) {
	interactive := []model.NodeType{model.NodeButton, model.NodeInput, model.NodeLink, model.NodeSelect, model.NodeCheckbox, model.NodeRadio}
	for _, nt := range interactive {
		if !Interactive(nt) {
			t.Errorf("%s should be interactive", nt)
		}
	}
	passive := []model.NodeType{model.NodeText, model.NodeImage, model.NodeTable, model.NodeForm, model.NodeDiv, model.NodeSpan, model.NodeOther}
	for _, nt := range passive {
		if Interactive(nt) {
			t.Errorf("%s should not be interactive", nt)
		}
	}
}
