// Skill vocabulary loading and text tagging.
// Matching is whole-word and case-insensitive everywhere: "go" must not
// match inside "mango".

package skills

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"gopkg.in/yaml.v3"
)

// Category is one row of the skill matrix.
type Category struct {
	Name   string   `yaml:"category"`
	Skills []string `yaml:"skills"`
}

// Matrix is the process-lifetime read-only vocabulary. Refreshing it means
// calling LoadMatrix again, never a background sync.
type Matrix struct {
	Categories []Category
	flat       []string
	patterns   map[string]*regexp.Regexp
}

// LoadMatrix reads the skill matrix YAML and precompiles one boundary
// pattern per vocabulary term. extra terms (e.g. supplied by a frontend)
// are folded into the flat vocabulary.
func LoadMatrix(path string, extra ...string) (*Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skills file: %w", err)
	}

	var doc struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse skills file: %w", err)
	}
	return NewMatrix(doc.Categories, extra...), nil
}

// NewMatrix builds a matrix from already-loaded categories. The flat
// vocabulary is the de-duplicated union of every category member plus extras.
func NewMatrix(categories []Category, extra ...string) *Matrix {
	m := &Matrix{
		Categories: categories,
		patterns:   make(map[string]*regexp.Regexp),
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	add := func(skill string) {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" || !seen.Add(skill) {
			return
		}
		m.flat = append(m.flat, skill)
		m.patterns[skill] = boundaryPattern(skill)
	}

	for _, cat := range categories {
		for _, s := range cat.Skills {
			add(s)
		}
	}
	for _, s := range extra {
		add(s)
	}
	sort.Strings(m.flat)
	return m
}

// Flat returns the full vocabulary, sorted.
func (m *Matrix) Flat() []string {
	out := make([]string, len(m.flat))
	copy(out, m.flat)
	return out
}

// boundaryPattern compiles a case-insensitive whole-word pattern. Terms like
// "c++" or ".net" end in non-word runes, so a bare \b on both sides would
// never match; anchor each side on whether the rune is a word character.
func boundaryPattern(skill string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(skill)
	left, right := `\b`, `\b`
	if !isWordRune(rune(skill[0])) {
		left = `(?:^|[^\w])`
	}
	if !isWordRune(rune(skill[len(skill)-1])) {
		right = `(?:[^\w]|$)`
	}
	return regexp.MustCompile(`(?i)` + left + quoted + right)
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// TagFlat returns the vocabulary terms present in text as whole words.
// Pure and deterministic: same inputs, same set.
func (m *Matrix) TagFlat(text string) mapset.Set[string] {
	found := mapset.NewThreadUnsafeSet[string]()
	if text == "" {
		return found
	}
	for _, skill := range m.flat {
		if m.patterns[skill].MatchString(text) {
			found.Add(skill)
		}
	}
	return found
}

// TagByCategory returns category -> matched skills, omitting categories with
// no matches. Uses the same boundary matcher as TagFlat on every path.
func (m *Matrix) TagByCategory(text string) map[string]mapset.Set[string] {
	matches := make(map[string]mapset.Set[string])
	if text == "" {
		return matches
	}
	for _, cat := range m.Categories {
		found := mapset.NewThreadUnsafeSet[string]()
		for _, s := range cat.Skills {
			key := strings.ToLower(strings.TrimSpace(s))
			if p, ok := m.patterns[key]; ok && p.MatchString(text) {
				found.Add(key)
			}
		}
		if found.Cardinality() > 0 {
			matches[cat.Name] = found
		}
	}
	return matches
}

// Sorted flattens a set into a sorted slice for stable persistence.
func Sorted(s mapset.Set[string]) []string {
	out := s.ToSlice()
	sort.Strings(out)
	return out
}

// SortedByCategory converts a category map into sorted slices.
func SortedByCategory(m map[string]mapset.Set[string]) map[string][]string {
	out := make(map[string][]string, len(m))
	for cat, set := range m {
		out[cat] = Sorted(set)
	}
	return out
}
