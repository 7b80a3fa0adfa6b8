package scraper

import (
	"strings"

	"golang.org/x/net/html"

	"tftnerd/internal/gamedata"
)

const (
	compLinkPrefix     = "/teamfight-tactics/team-comps/"
	championLinkPrefix = "/teamfight-tactics/champions/"
)

// parseCompLinks extracts the detail-page URLs from the team-comps index.
// Links are returned absolute and deduplicated in page order.
func parseCompLinks(doc *html.Node, baseURL string) []string {
	seen := make(map[string]bool)
	var links []string
	for _, a := range findAll(doc, byClass("a", "tft-row")) {
		href := attrVal(a, "href")
		if !strings.HasPrefix(href, compLinkPrefix) || seen[href] {
			continue
		}
		seen[href] = true
		links = append(links, baseURL+href)
	}
	return links
}

// parseCompPage extracts one team composition from its detail page.
func parseCompPage(doc *html.Node) gamedata.Comp {
	comp := gamedata.Comp{Name: compName(doc)}

	// The unit grid labels each champion with a name element.
	if grid := findFirst(doc, byID("tier__grid")); grid != nil {
		for _, n := range findAll(grid, byClass("", "name")) {
			if name := textContent(n); name != "" {
				comp.Champions = appendUnique(comp.Champions, name)
			}
		}
	}
	if len(comp.Champions) > 0 {
		return comp
	}

	// Older pages link each unit to its champion page instead.
	for _, a := range findAll(doc, func(n *html.Node) bool { return n.Data == "a" }) {
		href := attrVal(a, "href")
		if !strings.HasPrefix(href, championLinkPrefix) {
			continue
		}
		name := textContent(a)
		if name == "" {
			if img := findFirst(a, func(n *html.Node) bool { return n.Data == "img" }); img != nil {
				name = attrVal(img, "alt")
			}
		}
		if name != "" {
			comp.Champions = appendUnique(comp.Champions, name)
		}
	}
	return comp
}

func compName(doc *html.Node) string {
	if h1 := findFirst(doc, byClass("h1", "list-title")); h1 != nil {
		if name := textContent(h1); name != "" {
			return name
		}
	}
	if title := findFirst(doc, func(n *html.Node) bool { return n.Data == "title" }); title != nil {
		if name := textContent(title); name != "" {
			return name
		}
	}
	return "Unknown Comp"
}

func appendUnique(list []string, name string) []string {
	for _, existing := range list {
		if strings.EqualFold(existing, name) {
			return list
		}
	}
	return append(list, name)
}
