package browser

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/ciciliostudio/viewpoint/internal/model"
)

// ParseHTML extracts testable nodes from a saved HTML document, for
// authoring test cases without a live browser session. Geometry and
// visibility are unknowable offline: sizes stay zero and every node is
// assumed visible.
func ParseHTML(r io.Reader, pageURL string) (*model.PageStructure, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML document: %w", err)
	}

	now := model.Now()
	var nodes []model.PageNode
	index := 0

	doc.Find("form").Each(func(_ int, form *goquery.Selection) {
		formNode := nodeFromSelection(form, "", pageURL, &index, now)
		nodes = append(nodes, formNode)
		form.Find("input, select, textarea, button").Each(func(_ int, el *goquery.Selection) {
			nodes = append(nodes, nodeFromSelection(el, formNode.ID, pageURL, &index, now))
		})
	})

	title := strings.TrimSpace(doc.Find("title").First().Text())
	return &model.PageStructure{
		ID:        uuid.NewString(),
		URL:       pageURL,
		Title:     title,
		Nodes:     nodes,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

var importantAttrs = map[string]bool{
	"id": true, "name": true, "class": true, "type": true, "value": true,
	"href": true, "placeholder": true, "title": true, "alt": true,
	"role": true, "tabindex": true, "action": true, "method": true,
	"min": true, "max": true, "required": true, "disabled": true,
	"onclick": true,
}

func nodeFromSelection(sel *goquery.Selection, parentID, pageURL string, index *int, now time.Time) model.PageNode {
	tag := goquery.NodeName(sel)

	attrs := map[string]string{}
	if node := sel.Get(0); node != nil {
		for _, a := range node.Attr {
			if importantAttrs[a.Key] || strings.HasPrefix(a.Key, "data-") {
				attrs[a.Key] = a.Val
			}
		}
	}

	id := attrs["id"]
	if id == "" {
		id = fmt.Sprintf("element_%d", *index)
	}
	*index++

	text := strings.Join(strings.Fields(sel.Text()), " ")
	if r := []rune(text); len(r) > 200 {
		text = string(r[:200]) + "..."
	}

	var children []string
	sel.Children().Each(func(_ int, child *goquery.Selection) {
		if cid, ok := child.Attr("id"); ok && cid != "" {
			children = append(children, cid)
		}
	})

	nt := Classify(tag, attrs)
	return model.PageNode{
		ID:            id,
		Type:          nt,
		TagName:       tag,
		TextContent:   text,
		Attributes:    attrs,
		XPath:         xpathFor(sel),
		CSSSelector:   cssSelectorFor(tag, attrs),
		IsVisible:     true,
		IsInteractive: Interactive(nt),
		ParentID:      parentID,
		Children:      children,
		PageURL:       pageURL,
		CreatedAt:     now,
	}
}

// cssSelectorFor mirrors the live extraction script: id wins, else tag plus
// classes plus a name qualifier.
func cssSelectorFor(tag string, attrs map[string]string) string {
	if id := attrs["id"]; id != "" {
		return "#" + id
	}
	selector := tag
	if class := attrs["class"]; class != "" {
		for _, c := range strings.Fields(class) {
			selector += "." + c
		}
	}
	if name := attrs["name"]; name != "" {
		selector += fmt.Sprintf(`[name=%q]`, name)
	}
	return selector
}

// xpathFor derives a positional xpath by walking up the parsed tree. An
// element with an id short-circuits to an id-based path.
func xpathFor(sel *goquery.Selection) string {
	node := sel.Get(0)
	if node == nil {
		return ""
	}
	var steps []string
	for n := node; n != nil && n.Type == html.ElementNode; n = n.Parent {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val != "" {
				steps = append(steps, fmt.Sprintf(`/*[@id=%q]`, a.Val))
				return "/" + strings.Join(reverse(steps), "/")
			}
		}
		pos := 1
		for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
			if sib.Type == html.ElementNode && sib.Data == n.Data {
				pos++
			}
		}
		steps = append(steps, fmt.Sprintf("%s[%d]", n.Data, pos))
	}
	return "/" + strings.Join(reverse(steps), "/")
}

func reverse(s []string) []string {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
	return s
}
