package scraper

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"tftnerd/internal/gamedata"
)

// parseChampionsPage extracts every champion card plus the origin and class
// synergy tables from the champions index page.
func parseChampionsPage(doc *html.Node) ([]gamedata.Champion, []gamedata.Trait) {
	var champions []gamedata.Champion
	for _, card := range findAll(doc, byClass("div", "champions-wrap__details")) {
		info := findFirst(card, byClass("div", "champions-wrap__details__champion__info"))
		if info == nil {
			continue
		}
		c := gamedata.Champion{Name: "Unknown"}
		if name := findFirst(info, byClass("span", "name")); name != nil {
			c.Name = textContent(name)
		}
		if cost := findFirst(info, byClass("span", "cost")); cost != nil {
			c.Cost = parseCost(textContent(cost))
		}
		for _, img := range findAll(info, func(n *html.Node) bool { return n.Data == "img" }) {
			if src := attrVal(img, "src"); src != "" {
				c.Traits = append(c.Traits, imgStem(src))
			}
		}
		champions = append(champions, c)
	}

	var traits []gamedata.Trait
	if synergies := findFirst(doc, byClass("div", "synergies-wrap")); synergies != nil {
		if origins := findFirst(synergies, byClass("div", "origins")); origins != nil {
			traits = append(traits, parseTraitSection(origins)...)
		}
		if classes := findFirst(synergies, byClass("div", "classes")); classes != nil {
			traits = append(traits, parseTraitSection(classes)...)
		}
	}
	return champions, traits
}

// parseTraitSection pulls the traits out of one synergy column. The trait
// name lives in the icon file name; the activation breaks are the leading
// digits of each list item.
func parseTraitSection(section *html.Node) []gamedata.Trait {
	var traits []gamedata.Trait
	for _, details := range findAll(section, byClass("div", "details")) {
		pic := findFirst(details, byClass("div", "details__pic"))
		if pic == nil {
			continue
		}
		img := findFirst(pic, func(n *html.Node) bool { return n.Data == "img" })
		if img == nil || attrVal(img, "src") == "" {
			continue
		}
		t := gamedata.Trait{Name: imgStem(attrVal(img, "src"))}
		if ul := findFirst(details, byClass("ul", "bbcode_list")); ul != nil {
			for _, li := range findAll(ul, func(n *html.Node) bool { return n.Data == "li" }) {
				text := textContent(li)
				if text == "" || !unicode.IsDigit(rune(text[0])) {
					continue
				}
				n, _ := strconv.Atoi(text[:1])
				t.Breaks = append(t.Breaks, n)
			}
		}
		if len(t.Breaks) == 0 {
			t.Breaks = []int{1}
		}
		traits = append(traits, t)
	}
	return traits
}

// parseCost turns the "3G" shop label into its integer cost.
func parseCost(s string) int {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "Gg")
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
