package style

import (
	"testing"

	"github.com/matzehuels/treeviz/pkg/errors"
)

func TestSheet_String(t *testing.T) {
	sheet := New().
		Add(".edge", Decl("stroke-width", "5px")).
		Add(".n0 .edge, .n1 .edge", Decl("stroke", "#31688EFF"), Decl("fill", "none"))

	want := ".edge {stroke-width: 5px} .n0 .edge, .n1 .edge {stroke: #31688EFF; fill: none}"
	if got := sheet.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := sheet.Scoped("recombination"), "#recombination { "+want+" }"; got != want {
		t.Errorf("Scoped() = %q, want %q", got, want)
	}
	if err := sheet.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestScope(t *testing.T) {
	got := Scope("tree-neutral", ".edge {stroke-width: 2px}")
	want := "#tree-neutral { .edge {stroke-width: 2px} }"
	if got != want {
		t.Errorf("Scope() = %q, want %q", got, want)
	}
}

func TestValidateCSS(t *testing.T) {
	tests := []struct {
		name    string
		css     string
		wantErr bool
	}{
		{"simple", ".edge {stroke-width: 2px}", false},
		{"transform", ".tree.t0 > .plotbox {transform: translateY(240px) skewY(0.6rad)}", false},
		{"empty block", ".edge {}", false},
		{"empty input", "", false},
		{"stray brace", "}", true},
		{"missing selector", "{color: red}", true},
		{"empty rule without selector", "{ }", true},
		{"blank selector after rule", ".a {color: red} {}", true},
		{"no block", "garbage", true},
		{"missing property", ".a {: red}", true},
		{"unterminated", ".a {color: red", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCSS(tt.css)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateCSS(%q) error = %v, wantErr %v", tt.css, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidStyle) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidStyle)
			}
		})
	}
}

func TestParse(t *testing.T) {
	sheet, err := Parse(".x-axis {transform: translate(40px,282px) skewY(-0.38rad)} .lab {font-size: 8px}")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	rules := sheet.Rules()
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	if rules[0].Selector != ".x-axis" {
		t.Errorf("selector = %q", rules[0].Selector)
	}
	if rules[1].Declarations[0] != Decl("font-size", "8px") {
		t.Errorf("declaration = %+v", rules[1].Declarations[0])
	}
}

func TestMerge(t *testing.T) {
	a := New().Add(".a", Decl("fill", "red"))
	b := New().Add(".b", Decl("fill", "blue"))
	if got := a.Merge(b).Merge(nil).Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestFormatting(t *testing.T) {
	if got := Px(40); got != "40px" {
		t.Errorf("Px(40) = %q", got)
	}
	if got := Rad(0.6); got != "0.6rad" {
		t.Errorf("Rad(0.6) = %q", got)
	}
	if got := Translate(40, 282.5); got != "translate(40px,282.5px)" {
		t.Errorf("Translate() = %q", got)
	}
}
