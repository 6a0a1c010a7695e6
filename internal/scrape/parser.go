package scrape

import (
	"errors"
	"regexp"
	"strings"

	"github.com/arkdex/arkdex/backend/go-services/internal/trivia"
	"golang.org/x/net/html"
)

var (
	// ErrNoContent means the page parsed but held no usable trivia.
	ErrNoContent = errors.New("scrape: no trivia content on page")

	citationPattern   = regexp.MustCompile(`\[\d+\]`)
	triviaTitleSuffix = regexp.MustCompile(`(?i)'s trivia$`)
)

// ParseTriviaPage extracts a trivia document from a fandom wiki page.
// The page layout: the article body lives in div.mw-parser-output; each
// trivia entry is a top-level <li> of the first direct-child <ul>, with
// optional nested <ul> lists elaborating on the entry and citation
// references in <sup class="reference"> elements that must be dropped.
func ParseTriviaPage(page []byte, fallbackName, url string) (*trivia.Document, error) {
	root, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		return nil, err
	}

	doc := &trivia.Document{
		Name: pageTitle(root, fallbackName),
		URL:  url,
	}

	content := findElement(root, func(n *html.Node) bool {
		return n.Data == "div" && hasClass(n, "mw-parser-output")
	})
	if content == nil {
		return nil, ErrNoContent
	}

	if mainList := directChild(content, "ul"); mainList != nil {
		for li := mainList.FirstChild; li != nil; li = li.NextSibling {
			if li.Type != html.ElementNode || li.Data != "li" {
				continue
			}
			if item, ok := parseItem(li); ok {
				doc.TriviaItems = append(doc.TriviaItems, item)
			}
		}
	}

	// Some trivia pages are prose-only; fall back to paragraphs.
	if len(doc.TriviaItems) == 0 {
		doc.TriviaItems = paragraphItems(content)
	}
	if len(doc.TriviaItems) == 0 {
		return nil, ErrNoContent
	}
	return doc, nil
}

// parseItem converts one top-level <li> into a trivia item. The item's
// own text excludes nested lists and citations; every nested <li>
// becomes one sub-item.
func parseItem(li *html.Node) (trivia.Item, bool) {
	var sb strings.Builder
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "sup") {
			continue
		}
		sb.WriteString(nodeText(c))
	}
	text := cleanText(sb.String())
	if text == "" {
		return trivia.Item{}, false
	}

	item := trivia.Item{Text: text}
	if nested := findElement(li, func(n *html.Node) bool { return n.Data == "ul" }); nested != nil {
		walkElements(nested, "li", func(sub *html.Node) {
			if t := cleanText(textWithoutCitations(sub)); t != "" {
				item.SubItems = append(item.SubItems, t)
			}
		})
	}
	return item, true
}

// paragraphItems collects article paragraphs as items, skipping the
// boilerplate intro the wiki puts on stub pages.
func paragraphItems(content *html.Node) []trivia.Item {
	var items []trivia.Item
	walkElements(content, "p", func(p *html.Node) {
		t := cleanText(textWithoutCitations(p))
		if t != "" && !strings.HasPrefix(t, "This is") {
			items = append(items, trivia.Item{Text: t})
		}
	})
	return items
}

// pageTitle reads the page header and strips the "X's trivia" suffix.
func pageTitle(root *html.Node, fallback string) string {
	h1 := findElement(root, func(n *html.Node) bool {
		return n.Data == "h1" && hasClass(n, "page-header__title")
	})
	if h1 == nil {
		return fallback
	}
	title := cleanText(nodeText(h1))
	if title == "" {
		return fallback
	}
	return strings.TrimSpace(triviaTitleSuffix.ReplaceAllString(title, ""))
}

func cleanText(s string) string {
	s = citationPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}

// nodeText flattens all text beneath n.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}

// textWithoutCitations flattens text beneath n skipping citation sups.
func textWithoutCitations(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	if n.Type == html.ElementNode && n.Data == "sup" && hasClass(n, "reference") {
		return ""
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textWithoutCitations(c))
	}
	return sb.String()
}

// findElement returns the first element in document order matching pred.
func findElement(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// directChild returns the first direct child element with the given tag.
func directChild(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}

// walkElements calls fn on every descendant element with the given tag.
func walkElements(n *html.Node, tag string, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			fn(c)
		}
		walkElements(c, tag, fn)
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
