package spritesort

import (
	"errors"
	"fmt"
	"strings"
)

// Category is a classification bucket and the name of its output directory.
type Category string

// Catch-all buckets that follow the rule categories in every report.
const (
	Unclassified Category = "OTHERS" // no rule matched, or the lookup failed
	Errored      Category = "ERRORS" // the file could not be copied
)

// ErrInvalidRules is returned by NewClassifier for a malformed rule table.
var ErrInvalidRules = errors.New("invalid classification rules")

// Rule maps a category to the attribute names that select it.
type Rule struct {
	Category   Category
	Attributes []string
}

// DefaultRules is the element table, highest priority first.
var DefaultRules = []Rule{
	{Category: "PYRO", Attributes: []string{"fire", "fighting", "dragon"}},
	{Category: "AQUA", Attributes: []string{"water", "ice"}},
	{Category: "AERO", Attributes: []string{"electric", "flying", "psychic", "ghost"}},
	{Category: "TERRA", Attributes: []string{"ground", "rock", "steel", "grass", "bug", "poison"}},
	{Category: "NEUTRAL", Attributes: []string{"normal", "dark", "fairy"}},
}

// Classifier assigns a Category from a priority-ordered rule table.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	order []Category
	sets  []map[string]bool
}

// NewClassifier validates rules and builds a Classifier. Empty rules means
// DefaultRules.
func NewClassifier(rules []Rule) (*Classifier, error) {
	if len(rules) == 0 {
		rules = DefaultRules
	}

	c := &Classifier{
		order: make([]Category, 0, len(rules)),
		sets:  make([]map[string]bool, 0, len(rules)),
	}
	seen := make(map[Category]bool, len(rules))
	for i, r := range rules {
		name := Category(strings.TrimSpace(string(r.Category)))
		switch {
		case name == "":
			return nil, fmt.Errorf("%w: rule %d has no category", ErrInvalidRules, i)
		case name == Unclassified || name == Errored:
			return nil, fmt.Errorf("%w: category %q is reserved", ErrInvalidRules, name)
		case strings.ContainsAny(string(name), `/\`) || name == "." || name == "..":
			return nil, fmt.Errorf("%w: category %q is not a valid directory name", ErrInvalidRules, name)
		case seen[name]:
			return nil, fmt.Errorf("%w: duplicate category %q", ErrInvalidRules, name)
		}
		seen[name] = true

		set := make(map[string]bool, len(r.Attributes))
		for _, a := range r.Attributes {
			if a = normalizeAttribute(a); a != "" {
				set[a] = true
			}
		}
		c.order = append(c.order, name)
		c.sets = append(c.sets, set)
	}
	return c, nil
}

// MustClassifier is like NewClassifier but panics on an invalid table.
func MustClassifier(rules []Rule) *Classifier {
	c, err := NewClassifier(rules)
	if err != nil {
		panic(err)
	}
	return c
}

// Categories returns the rule categories in priority order.
func (c *Classifier) Categories() []Category {
	out := make([]Category, len(c.order))
	copy(out, c.order)
	return out
}

// Buckets returns every reportable bucket: rule categories in priority order,
// then Unclassified and Errored.
func (c *Classifier) Buckets() []Category {
	return append(c.Categories(), Unclassified, Errored)
}

// Classify returns the highest-priority category whose attribute set
// intersects res.Attributes. Unresolved, empty and unmatched inputs return
// Unclassified.
func (c *Classifier) Classify(res Resolution) Category {
	if !res.Resolved() || len(res.Attributes) == 0 {
		return Unclassified
	}
	for i, set := range c.sets {
		for _, a := range res.Attributes {
			if set[normalizeAttribute(a)] {
				return c.order[i]
			}
		}
	}
	return Unclassified
}

func normalizeAttribute(a string) string {
	return strings.ToLower(strings.TrimSpace(a))
}
