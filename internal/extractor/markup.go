package extractor

import (
	"regexp"
	"strings"
)

// The extractor accepts either markdown or loosely structured HTML. Rather
// than teaching every downstream rule both syntaxes, HTML pages are first
// normalized into the markdown subset the rules understand: h2/h3 become
// ##/###, strong/b become **, li becomes a bullet line, anchors become
// markdown links, and every other tag is stripped.
var (
	reH2Open   = regexp.MustCompile(`(?i)<h2[^>]*>`)
	reH3Open   = regexp.MustCompile(`(?i)<h3[^>]*>`)
	reHClose   = regexp.MustCompile(`(?i)</h[23]>`)
	reBoldOpen = regexp.MustCompile(`(?i)<(?:strong|b)[^>]*>`)
	reBoldEnd  = regexp.MustCompile(`(?i)</(?:strong|b)>`)
	reListItem = regexp.MustCompile(`(?i)<li[^>]*>`)
	reLineTag  = regexp.MustCompile(`(?i)</li>|</p>|<p[^>]*>|<br\s*/?>|</div>|<div[^>]*>|</ul>|<ul[^>]*>|</ol>|<ol[^>]*>`)
	reAnchor   = regexp.MustCompile(`(?i)<a\s+[^>]*href="([^"]+)"[^>]*>([^<]*)</a>`)
	reAnyTag   = regexp.MustCompile(`<[^>]+>`)

	entityReplacer = strings.NewReplacer(
		"&amp;", "&",
		"&nbsp;", " ",
		"&quot;", `"`,
		"&#39;", "'",
		"&apos;", "'",
		"&lt;", "<",
		"&gt;", ">",
	)
)

// normalizeMarkup converts HTML markers into their markdown equivalents
// and strips everything else, leaving line-oriented text the section and
// field rules can work on. Markdown input passes through unchanged apart
// from entity decoding.
func normalizeMarkup(markup string) string {
	s := markup
	s = reH2Open.ReplaceAllString(s, "\n## ")
	s = reH3Open.ReplaceAllString(s, "\n### ")
	s = reHClose.ReplaceAllString(s, "\n")
	s = reBoldOpen.ReplaceAllString(s, "**")
	s = reBoldEnd.ReplaceAllString(s, "**")
	s = reListItem.ReplaceAllString(s, "\n- ")
	s = reAnchor.ReplaceAllString(s, "[$2]($1)")
	s = reLineTag.ReplaceAllString(s, "\n")
	s = reAnyTag.ReplaceAllString(s, "")
	s = entityReplacer.Replace(s)
	return s
}

// section is one heading-delimited segment of a page.
type section struct {
	heading string
	body    string
}

var reHeading = regexp.MustCompile(`^(#{2,3})\s*(.*)$`)

// splitSections splits normalized markup on level 2-3 headings. Text
// before the first heading is discarded; segments with an empty heading or
// an empty body are dropped.
func splitSections(markup string) []section {
	var sections []section
	var current *section
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if current.heading != "" && text != "" {
			sections = append(sections, section{heading: current.heading, body: text})
		}
		current = nil
		body = nil
	}

	for _, line := range strings.Split(markup, "\n") {
		// A leading '#' in the captured text means the marker was really
		// four or more hashes; those are not section headings.
		if m := reHeading.FindStringSubmatch(strings.TrimSpace(line)); m != nil && !strings.HasPrefix(m[2], "#") {
			flush()
			current = &section{heading: strings.TrimSpace(m[2])}
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()
	return sections
}
