// Package style assembles the CSS rules that restyle tree drawings.
//
// Figures only ever add rules: a [Sheet] is an ordered list of selectors
// with declarations, rendered as plain CSS and usually wrapped under the id
// of the SVG document it targets, so several drawings can share a page:
//
//	sheet := style.New().
//	    Add(".edge", style.Decl("stroke-width", "2px")).
//	    Add(".n4 .edge", style.Decl("stroke", "#FDE725FF"))
//	css := sheet.Scoped("recombination")
//	// #recombination { .edge {stroke-width: 2px} .n4 .edge {stroke: #FDE725FF} }
//
// Scoped output uses CSS nesting, which the drawing consumers understand;
// validation is done on the flat rules with the douceur parser.
package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"

	"github.com/matzehuels/treeviz/pkg/errors"
)

type Declaration struct {
	Property string
	Value    string
}

func Decl(property, value string) Declaration {
	return Declaration{Property: property, Value: value}
}

type Rule struct {
	Selector     string
	Declarations []Declaration
}

func (r Rule) String() string {
	parts := make([]string, len(r.Declarations))
	for i, d := range r.Declarations {
		parts[i] = d.Property + ": " + d.Value
	}
	return r.Selector + " {" + strings.Join(parts, "; ") + "}"
}

// Sheet is an ordered list of rules.
type Sheet struct {
	rules []Rule
}

func New() *Sheet { return &Sheet{} }

// Add appends a rule and returns the sheet for chaining.
func (s *Sheet) Add(selector string, decls ...Declaration) *Sheet {
	s.rules = append(s.rules, Rule{Selector: selector, Declarations: decls})
	return s
}

// Merge appends the rules of other.
func (s *Sheet) Merge(other *Sheet) *Sheet {
	if other != nil {
		s.rules = append(s.rules, other.rules...)
	}
	return s
}

func (s *Sheet) Rules() []Rule { return append([]Rule(nil), s.rules...) }
func (s *Sheet) Len() int      { return len(s.rules) }

func (s *Sheet) String() string {
	parts := make([]string, len(s.rules))
	for i, r := range s.rules {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}

// Scoped wraps the sheet under the element with the given id.
func (s *Sheet) Scoped(id string) string {
	return Scope(id, s.String())
}

// Validate parses the flat rules and checks every declaration.
func (s *Sheet) Validate() error {
	return ValidateCSS(s.String())
}

// Scope wraps raw CSS under the element with the given id.
func Scope(id, rules string) string {
	return "#" + id + " { " + rules + " }"
}

// Parse reads flat CSS into a sheet.
func Parse(text string) (*Sheet, error) {
	parsed, err := parse(text)
	if err != nil {
		return nil, err
	}
	sheet := New()
	for _, r := range parsed.Rules {
		decls := make([]Declaration, len(r.Declarations))
		for i, d := range r.Declarations {
			decls[i] = Decl(d.Property, d.Value)
		}
		sheet.Add(r.Prelude, decls...)
	}
	return sheet, nil
}

// ValidateCSS reports whether text is well-formed flat CSS: every rule has
// a selector and a declaration block, and every declaration has a
// property and a value.
func ValidateCSS(text string) error {
	_, err := parse(text)
	return err
}

func parse(text string) (*css.Stylesheet, error) {
	sheet, err := parser.Parse(text)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidStyle, err, "parse css")
	}
	for _, r := range sheet.Rules {
		if r.Kind != css.QualifiedRule {
			continue
		}
		if strings.TrimSpace(r.Prelude) == "" {
			return nil, errors.New(errors.ErrCodeInvalidStyle, "rule has no selector")
		}
		if r.Declarations == nil {
			return nil, errors.New(errors.ErrCodeInvalidStyle, "rule %q has no declaration block", r.Prelude)
		}
		for _, d := range r.Declarations {
			if d.Property == "" || d.Value == "" {
				return nil, errors.New(errors.ErrCodeInvalidStyle, "rule %q: incomplete declaration %q", r.Prelude, d.String())
			}
		}
	}
	return sheet, nil
}

// Px formats a length in pixels.
func Px(v float64) string { return num(v) + "px" }

// Rad formats an angle in radians.
func Rad(v float64) string { return num(v) + "rad" }

// Translate formats a CSS translate() transform function.
func Translate(x, y float64) string {
	return fmt.Sprintf("translate(%s,%s)", Px(x), Px(y))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
