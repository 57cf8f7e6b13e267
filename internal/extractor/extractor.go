// Package extractor turns the free-form markup of one installation page
// into typed, categorized resource records. Extraction is a pure function
// of its input: no network, no store, and the same markup always yields
// the same records. It is also total; malformed input yields zero records
// for a section, never a panic escaping to the caller. Both properties
// matter because this drives unattended batch jobs.
package extractor

import (
	"fmt"
	"strings"

	"github.com/garrisonhq/garrison/pkg/errors"
)

// Resource is one extracted facility record. Name is the only mandatory
// field; everything else is best-effort and empty when the page gave us
// nothing to work with.
type Resource struct {
	Category    Category `json:"category"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Address     string   `json:"address,omitempty"`
	Website     string   `json:"website,omitempty"`
	Hours       string   `json:"hours,omitempty"`
}

// Extractor segments, classifies, and extracts resources using an injected
// category rule table. The table is immutable after construction.
type Extractor struct {
	rules []CategoryRule
}

// New creates an extractor. A nil rule slice uses the built-in table.
func New(rules []CategoryRule) *Extractor {
	if rules == nil {
		rules = DefaultCategoryRules
	}
	return &Extractor{rules: rules}
}

// Extract produces all resources found in the markup, in page order.
func (e *Extractor) Extract(markup string) []Resource {
	resources, _ := e.ExtractAll(markup)
	return resources
}

// ExtractAll is Extract plus the per-section errors. A failure in one
// section never discards resources extracted from its siblings.
func (e *Extractor) ExtractAll(markup string) ([]Resource, []error) {
	var resources []Resource
	var errs []error

	for _, sec := range splitSections(normalizeMarkup(markup)) {
		extracted, err := e.extractSection(sec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		resources = append(resources, extracted...)
	}
	return resources, errs
}

// extractSection classifies one section and extracts its entries. Any
// panic from a pathological section is converted into an ExtractionError
// so the batch keeps running.
func (e *Extractor) extractSection(sec section) (resources []Resource, err error) {
	defer func() {
		if r := recover(); r != nil {
			resources = nil
			err = &errors.ExtractionError{
				Section: sec.heading,
				Message: fmt.Sprintf("panic during extraction: %v", r),
			}
		}
	}()

	category := classify(sec.heading, e.rules)
	for _, ent := range splitEntries(sec) {
		if res := buildResource(category, ent); res != nil {
			resources = append(resources, *res)
		}
	}
	return resources, nil
}

// entry is one facility's worth of lines within a section.
type entry struct {
	name     string
	nameLine string // the body line the name came from, "" when the heading supplied it
	lines    []string
}

// splitEntries decides whether a section body describes one facility or
// several. More than one bold marker splits on bold markers; more than one
// bullet line splits on bullets; otherwise the whole body is one entry
// named after the section heading.
func splitEntries(sec section) []entry {
	bolds := reBold.FindAllStringIndex(sec.body, -1)
	lines := strings.Split(sec.body, "\n")

	if len(bolds) > 1 {
		return splitOnBold(sec.body, bolds)
	}

	var bulletCount int
	for _, line := range lines {
		if reBullet.MatchString(line) {
			bulletCount++
		}
	}
	if bulletCount > 1 {
		return splitOnBullets(lines)
	}

	// Single entry. A lone bold marker names it; otherwise the heading does.
	ent := entry{name: sec.heading, lines: lines}
	if m := reBold.FindStringSubmatch(sec.body); m != nil {
		ent.name = strings.TrimSpace(m[1])
		for _, line := range lines {
			if strings.Contains(line, "**"+m[1]+"**") {
				ent.nameLine = line
				break
			}
		}
	}
	return []entry{ent}
}

// splitOnBold slices the body at each bold marker. Text before the first
// marker belongs to no facility and is dropped.
func splitOnBold(body string, bolds [][]int) []entry {
	var entries []entry
	for i, loc := range bolds {
		end := len(body)
		if i+1 < len(bolds) {
			end = bolds[i+1][0]
		}
		chunk := body[loc[0]:end]
		lines := strings.Split(chunk, "\n")
		name := strings.TrimSpace(strings.Trim(body[loc[0]:loc[1]], "*"))
		entries = append(entries, entry{
			name:     name,
			nameLine: lines[0],
			lines:    lines,
		})
	}
	return entries
}

// splitOnBullets groups each bullet line with its following plain lines.
// Leading non-bullet lines carry no marker and are dropped.
func splitOnBullets(lines []string) []entry {
	var entries []entry
	var current *entry
	for _, line := range lines {
		if reBullet.MatchString(line) {
			if current != nil {
				entries = append(entries, *current)
			}
			current = &entry{
				name:     stripMarkers(line),
				nameLine: line,
				lines:    []string{line},
			}
			continue
		}
		if current != nil {
			current.lines = append(current.lines, line)
		}
	}
	if current != nil {
		entries = append(entries, *current)
	}
	return entries
}

// buildResource extracts the per-entry fields. Each field rule is applied
// independently of the others. Entries whose name comes out shorter than
// two characters are discarded; a name is the only mandatory field.
func buildResource(category Category, ent entry) *Resource {
	name := stripMarkers(ent.name)
	if len(name) < minNameLen {
		return nil
	}

	text := strings.Join(ent.lines, "\n")
	phone := extractPhone(text)
	website := extractWebsite(text)
	hours := extractHours(ent.lines)

	// Description: whatever lines are left once the name, phone, and hours
	// lines are accounted for, if they carry enough text to mean anything.
	var descParts []string
	for _, line := range ent.lines {
		stripped := stripMarkers(line)
		if len(stripped) <= minDescriptionLine {
			continue
		}
		if ent.nameLine != "" && line == ent.nameLine {
			continue
		}
		if phone != "" && strings.Contains(line, phone) {
			continue
		}
		if website != "" && strings.Contains(line, website) {
			continue
		}
		if hours != "" && stripped == hours {
			continue
		}
		descParts = append(descParts, stripped)
	}

	return &Resource{
		Category:    category,
		Name:        name,
		Description: truncate(strings.Join(descParts, " "), maxDescriptionLen),
		Phone:       phone,
		Website:     website,
		Hours:       hours,
	}
}
