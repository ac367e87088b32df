package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/ciciliostudio/viewpoint/internal/logging"
	"github.com/ciciliostudio/viewpoint/internal/model"
)

// rawElement is the wire shape produced by the extraction script.
type rawElement struct {
	ID          string            `json:"id"`
	TagName     string            `json:"tag_name"`
	TextContent string            `json:"text_content"`
	XPath       string            `json:"xpath"`
	CSSSelector string            `json:"css_selector"`
	Attributes  map[string]string `json:"attributes"`
	IsVisible   bool              `json:"is_visible"`
	Position    model.Position    `json:"position"`
	Size        model.Size        `json:"size"`
	ParentID    string            `json:"parent_id"`
	Children    []string          `json:"children"`
}

// extractScript collects every form on the page plus the form's input,
// select, textarea and button descendants. Elements outside forms are not
// testable targets and are skipped.
const extractScript = `
(() => {
	const data = [];
	let index = 0;
	const importantAttrs = ['id', 'name', 'class', 'type', 'value', 'href',
		'placeholder', 'title', 'alt', 'role', 'tabindex', 'action', 'method',
		'min', 'max', 'required', 'disabled', 'onclick'];

	const getXPath = (element) => {
		try {
			if (!element || !element.parentNode) return '';
			if (element.id !== '') return '//*[@id="' + element.id + '"]';
			if (element === document.body) return '/html/body';
			if (element === document.documentElement) return '/html';
			let ix = 0;
			for (const sibling of element.parentNode.childNodes) {
				if (sibling === element) {
					const parent = getXPath(element.parentNode);
					const step = element.tagName.toLowerCase() + '[' + (ix + 1) + ']';
					return parent ? parent + '/' + step : '/' + step;
				}
				if (sibling.nodeType === 1 && sibling.tagName === element.tagName) ix++;
			}
			return '';
		} catch (e) {
			return '';
		}
	};

	const getCSSSelector = (element) => {
		try {
			if (element.id) return '#' + element.id;
			let selector = element.tagName.toLowerCase();
			if (element.className && typeof element.className === 'string') {
				const classes = element.className.split(' ').filter(c => c.trim());
				if (classes.length > 0) selector += '.' + classes.join('.');
			}
			if (element.name) selector += '[name="' + element.name + '"]';
			return selector;
		} catch (e) {
			return element.tagName.toLowerCase();
		}
	};

	const getAttrs = (element) => {
		const attrs = {};
		for (const attr of element.attributes) {
			if (importantAttrs.includes(attr.name) || attr.name.startsWith('data-')) {
				attrs[attr.name] = attr.value;
			}
		}
		return attrs;
	};

	const isVisible = (element) => {
		const rect = element.getBoundingClientRect();
		const style = window.getComputedStyle(element);
		return rect.width > 0 && rect.height > 0 &&
			style.visibility !== 'hidden' &&
			style.display !== 'none' &&
			style.opacity !== '0';
	};

	const describe = (element, parentID) => {
		const rect = element.getBoundingClientRect();
		let text = (element.textContent || '').replace(/\s+/g, ' ').trim();
		if (text.length > 200) text = text.substring(0, 200) + '...';
		const children = [];
		for (const child of element.children) {
			if (child.id) children.push(child.id);
		}
		return {
			id: element.id || 'element_' + (index++),
			tag_name: element.tagName.toLowerCase(),
			text_content: text,
			xpath: getXPath(element),
			css_selector: getCSSSelector(element),
			attributes: getAttrs(element),
			is_visible: isVisible(element),
			position: { x: Math.round(rect.left), y: Math.round(rect.top) },
			size: { width: Math.round(rect.width), height: Math.round(rect.height) },
			parent_id: parentID,
			children: children
		};
	};

	document.querySelectorAll('form').forEach((form) => {
		const formData = describe(form, '');
		data.push(formData);
		form.querySelectorAll('input, select, textarea, button').forEach((element) => {
			try {
				data.push(describe(element, formData.id));
			} catch (e) {
				// skip elements that cannot be described
			}
		});
	});

	return data;
})()
`

// ParseStructure navigates to the URL, screenshots the page, and extracts
// its testable nodes into a new page structure.
func (d *ChromeDriver) ParseStructure(ctx context.Context, url string) (*model.PageStructure, error) {
	title, err := d.Navigate(ctx, url)
	if err != nil {
		return nil, err
	}

	screenshotPath, err := d.Screenshot(ctx)
	if err != nil {
		logging.Debug("page screenshot failed: %v", err)
		screenshotPath = ""
	}

	runCtx, cancel := d.stepContext(ctx, 15*time.Second)
	defer cancel()

	var raw []rawElement
	if err := chromedp.Run(runCtx, chromedp.Evaluate(extractScript, &raw)); err != nil {
		return nil, fmt.Errorf("failed to extract page nodes: %w", err)
	}

	now := model.Now()
	structure := &model.PageStructure{
		ID:             uuid.NewString(),
		URL:            url,
		Title:          title,
		Nodes:          buildNodes(raw, url, now),
		ScreenshotPath: screenshotPath,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	logging.Info("Parsed %d nodes from %s", len(structure.Nodes), url)
	return structure, nil
}

// buildNodes classifies raw extracted elements into typed page nodes,
// preserving discovery order.
func buildNodes(raw []rawElement, pageURL string, now time.Time) []model.PageNode {
	nodes := make([]model.PageNode, 0, len(raw))
	for _, el := range raw {
		if el.Attributes == nil {
			el.Attributes = map[string]string{}
		}
		nt := Classify(el.TagName, el.Attributes)
		nodes = append(nodes, model.PageNode{
			ID:            el.ID,
			Type:          nt,
			TagName:       el.TagName,
			TextContent:   el.TextContent,
			Attributes:    el.Attributes,
			XPath:         el.XPath,
			CSSSelector:   el.CSSSelector,
			Position:      el.Position,
			Size:          el.Size,
			IsVisible:     el.IsVisible,
			IsInteractive: Interactive(nt),
			ParentID:      el.ParentID,
			Children:      el.Children,
			PageURL:       pageURL,
			CreatedAt:     now,
		})
	}
	return nodes
}
