package browser

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ciciliostudio/viewpoint/internal/model"
)

const signupHTML = `<!DOCTYPE html>
<html>
<head><title>Sign up - Example</title></head>
<body>
  <h1>Create your account</h1>
  <form id="signup" action="/signup" method="post">
    <input type="email" id="email" name="email" placeholder="Email" required>
    <input type="password" name="password" data-testid="pw">
    <select id="country" name="country"></select>
    <input type="checkbox" id="terms">
    <button type="submit" class="btn primary">Sign up</button>
  </form>
  <form>
    <input type="text" name="q">
  </form>
</body>
</html>`

func parseSignup(t *testing.T) *model.PageStructure {
	t.Helper()
	s, err := ParseHTML(strings.NewReader(signupHTML), "https://example.com/signup")
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	return s
}

func TestParseHTMLStructure(t *testing.T) {
	s := parseSignup(t)

	if s.ID == "" {
		t.Error("structure should get an id")
	}
	if s.Title != "Sign up - Example" {
		t.Errorf("title = %q", s.Title)
	}
	if s.URL != "https://example.com/signup" {
		t.Errorf("url = %q", s.URL)
	}

	// Two forms plus their controls: 5 in the first, 1 in the second.
	if len(s.Nodes) != 8 {
		t.Fatalf("got %d nodes, want 8", len(s.Nodes))
	}
	if s.Nodes[0].Type != model.NodeForm || s.Nodes[0].ID != "signup" {
		t.Errorf("first node should be the signup form: %+v", s.Nodes[0])
	}
}

func TestParseHTMLNodeDetails(t *testing.T) {
	s := parseSignup(t)

	email := s.Node("email")
	if email == nil {
		t.Fatal("email node missing")
	}
	if email.Type != model.NodeInput || !email.IsInteractive {
		t.Errorf("email classification wrong: %+v", email)
	}
	if email.CSSSelector != "#email" {
		t.Errorf("email selector = %q", email.CSSSelector)
	}
	if email.Attr("placeholder", "") != "Email" {
		t.Errorf("placeholder not captured: %v", email.Attributes)
	}
	if email.ParentID != "signup" {
		t.Errorf("parent = %q, want signup", email.ParentID)
	}
	if !strings.Contains(email.XPath, `@id="email"`) {
		t.Errorf("xpath should short-circuit on id: %q", email.XPath)
	}

	country := s.Node("country")
	if country == nil || country.Type != model.NodeSelect {
		t.Fatalf("country select wrong: %+v", country)
	}
	terms := s.Node("terms")
	if terms == nil || terms.Type != model.NodeCheckbox {
		t.Fatalf("terms checkbox wrong: %+v", terms)
	}
}

func TestParseHTMLGeneratedIDs(t *testing.T) {
	s := parseSignup(t)

	// The password input has no id attribute and falls back to a positional
	// element id; its data- attribute is still harvested.
	var password *model.PageNode
	for i := range s.Nodes {
		if s.Nodes[i].Attr("name", "") == "password" {
			password = &s.Nodes[i]
		}
	}
	if password == nil {
		t.Fatal("password node missing")
	}
	if !strings.HasPrefix(password.ID, "element_") {
		t.Errorf("expected generated id, got %q", password.ID)
	}
	if password.Attr("data-testid", "") != "pw" {
		t.Errorf("data attribute not captured: %v", password.Attributes)
	}
	if password.CSSSelector != `input[name="password"]` {
		t.Errorf("selector = %q", password.CSSSelector)
	}
}

func TestParseHTMLButtonText(t *testing.T) {
	s := parseSignup(t)

	var button *model.PageNode
	for i := range s.Nodes {
		if s.Nodes[i].TagName == "button" {
			button = &s.Nodes[i]
		}
	}
	if button == nil {
		t.Fatal("button missing")
	}
	if button.Type != model.NodeButton {
		t.Errorf("button type = %s", button.Type)
	}
	if button.TextContent != "Sign up" {
		t.Errorf("button text = %q", button.TextContent)
	}
	if button.CSSSelector != "button.btn.primary" {
		t.Errorf("button selector = %q", button.CSSSelector)
	}
}

func TestParseHTMLNoForms(t *testing.T) {
	s, err := ParseHTML(strings.NewReader("<html><body><p>hello</p></body></html>"), "https://example.com")
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if len(s.Nodes) != 0 {
		t.Errorf("formless page should yield no nodes, got %d", len(s.Nodes))
	}
	if len(s.InteractiveNodes()) != 0 {
		t.Error("no interactive nodes expected")
	}
}

func TestParseHTMLTruncatesLongTextOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("测试数据", 60)
	page := `<html><body><form id="f"><button id="go">` + long + `</button></form></body></html>`

	s, err := ParseHTML(strings.NewReader(page), "https://example.com")
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	button := s.Node("go")
	if button == nil {
		t.Fatal("button missing")
	}
	if !strings.HasSuffix(button.TextContent, "...") {
		t.Errorf("long text not truncated: %q", button.TextContent)
	}
	if !utf8.ValidString(button.TextContent) {
		t.Errorf("truncated text is not valid UTF-8: %q", button.TextContent)
	}
	if got := utf8.RuneCountInString(strings.TrimSuffix(button.TextContent, "...")); got != 200 {
		t.Errorf("kept %d runes, want 200", got)
	}
}
