package scrape

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// OperatorList fetches the operator roster from the wiki's static list
// page. It collects anchor titles out of the wikitable rows, skipping
// category and gallery links. Used as the fallback when the headless
// browser roster is unavailable.
func (s *Scraper) OperatorList(ctx context.Context) ([]string, error) {
	body, err := s.fetcher.Fetch(ctx, s.baseURL+"/Operator_List")
	if err != nil {
		return nil, err
	}
	return parseOperatorList(body)
}

func parseOperatorList(page []byte) ([]string, error) {
	root, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string

	var walk func(n *html.Node, inTable bool)
	walk = func(n *html.Node, inTable bool) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "table" && hasClass(n, "wikitable"):
				inTable = true
			case inTable && n.Data == "a":
				if title := attrValue(n, "title"); keepOperatorTitle(title) && !seen[title] {
					seen[title] = true
					names = append(names, title)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inTable)
		}
	}
	walk(root, false)

	sort.Strings(names)
	return names, nil
}

func keepOperatorTitle(title string) bool {
	if title == "" {
		return false
	}
	if strings.HasPrefix(title, "Category:") {
		return false
	}
	if strings.HasSuffix(title, "/Gallery") {
		return false
	}
	return true
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
