package scrape

import (
	"context"
	"fmt"
	"sort"

	"github.com/arkdex/arkdex/backend/go-services/pkg/logger"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// starTierPages are the JS-rendered roster tables that need a real
// browser; the static Operator_List page covers everything else.
var starTierPages = []string{"Operator/6-star", "Operator/5-star"}

// BrowserRoster reads operator names from the star-tier tables with a
// headless Chrome. The tables are filled in client-side, so the plain
// HTTP fetcher sees empty rows there.
type BrowserRoster struct {
	baseURL  string
	headless bool
}

func NewBrowserRoster(baseURL string) *BrowserRoster {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &BrowserRoster{baseURL: baseURL, headless: true}
}

// OperatorNames launches a browser, visits each star-tier page and
// collects the operator column anchors.
func (b *BrowserRoster) OperatorNames(ctx context.Context) ([]string, error) {
	controlURL, err := launcher.New().Headless(b.headless).Launch()
	if err != nil {
		return nil, fmt.Errorf("scrape: launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("scrape: connect to chrome: %w", err)
	}
	defer browser.Close()

	seen := make(map[string]bool)
	var names []string
	for _, tier := range starTierPages {
		tierNames, err := b.scrapeTier(browser, b.baseURL+"/"+tier)
		if err != nil {
			logger.Warnf("roster tier %s failed: %v", tier, err)
			continue
		}
		for _, n := range tierNames {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("scrape: browser roster returned no operators")
	}

	sort.Strings(names)
	return names, nil
}

func (b *BrowserRoster) scrapeTier(browser *rod.Browser, url string) ([]string, error) {
	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	// operator name anchors sit in the second column of the roster table
	elements, err := page.Elements("table tbody tr td:nth-child(2) a")
	if err != nil {
		return nil, fmt.Errorf("find roster anchors: %w", err)
	}

	var names []string
	for _, el := range elements {
		text, err := el.Text()
		if err != nil {
			continue
		}
		if text != "" {
			names = append(names, text)
		}
	}
	return names, nil
}
