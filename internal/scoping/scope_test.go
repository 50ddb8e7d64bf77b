package scoping

import (
	"regexp"
	"strings"
	"testing"
)

func TestFingerprintIsDeterministic(t *testing.T) {
	t.Parallel()

	text := ".btn{background:blue;}"
	first := Fingerprint(text)
	second := Fingerprint(text)
	if first != second {
		t.Fatalf("Fingerprint not stable: %q vs %q", first, second)
	}
	if !regexp.MustCompile(`^[a-z0-9]{5}$`).MatchString(first) {
		t.Fatalf("Fingerprint %q is not 5-char lowercase base-36", first)
	}
}

func TestFingerprintDiffersForDifferentRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
	}{
		{"different property", ".btn{color:red;}", ".btn{color:blue;}"},
		{"different selector", ".btn{color:red;}", ".card{color:red;}"},
		{"whitespace change", ".btn{color:red;}", ".btn{ color:red;}"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if Fingerprint(tt.a) == Fingerprint(tt.b) {
				t.Fatalf("expected distinct fingerprints for %q and %q", tt.a, tt.b)
			}
		})
	}
}

func TestExtractRulesCompoundSelectorSharesRuleText(t *testing.T) {
	t.Parallel()

	rules, err := ExtractRules(".a.b { color: red }")
	if err != nil {
		t.Fatalf("ExtractRules error = %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 class rules, got %d: %+v", len(rules), rules)
	}
	if rules[0].ClassName != "a" || rules[1].ClassName != "b" {
		t.Fatalf("unexpected class names: %+v", rules)
	}
	if rules[0].RuleText != rules[1].RuleText {
		t.Fatalf("compound selector participants must share rule text: %q vs %q",
			rules[0].RuleText, rules[1].RuleText)
	}
}

func TestExtractRulesWalksMediaQueries(t *testing.T) {
	t.Parallel()

	rules, err := ExtractRules("@media (min-width: 600px) { .wide { display: flex } }")
	if err != nil {
		t.Fatalf("ExtractRules error = %v", err)
	}
	if len(rules) != 1 || rules[0].ClassName != "wide" {
		t.Fatalf("expected nested .wide rule, got %+v", rules)
	}
}

func TestExtractRulesSkipsNonClassSelectors(t *testing.T) {
	t.Parallel()

	rules, err := ExtractRules("div { margin: 0 } .btn { color: red }")
	if err != nil {
		t.Fatalf("ExtractRules error = %v", err)
	}
	if len(rules) != 1 || rules[0].ClassName != "btn" {
		t.Fatalf("expected only .btn, got %+v", rules)
	}
}

func TestScopeRewritesClassNames(t *testing.T) {
	t.Parallel()

	res, err := Scope(".btn{background:blue}", "Button")
	if err != nil {
		t.Fatalf("Scope error = %v", err)
	}
	if res.Degraded {
		t.Fatalf("expected parsed path, got degraded")
	}

	scoped, ok := res.Mapping.Lookup("btn")
	if !ok {
		t.Fatalf("mapping missing entry for btn")
	}
	if !regexp.MustCompile(`^Button_btn_[a-z0-9]{5}$`).MatchString(scoped) {
		t.Fatalf("scoped name %q does not match expected shape", scoped)
	}
	if regexp.MustCompile(`\.btn\b`).MatchString(res.Stylesheet) {
		t.Fatalf("rewritten stylesheet still contains a .btn token: %q", res.Stylesheet)
	}
	if !strings.Contains(res.Stylesheet, "."+scoped) {
		t.Fatalf("rewritten stylesheet missing scoped token: %q", res.Stylesheet)
	}
}

func TestScopePreservesPseudoClasses(t *testing.T) {
	t.Parallel()

	res, err := Scope(".btn:hover { color: red }", "Button")
	if err != nil {
		t.Fatalf("Scope error = %v", err)
	}
	scoped, _ := res.Mapping.Lookup("btn")
	if !strings.Contains(res.Stylesheet, "."+scoped+":hover") {
		t.Fatalf("pseudo-class not preserved: %q", res.Stylesheet)
	}
}

func TestScopeDoesNotBitePrefixes(t *testing.T) {
	t.Parallel()

	res, err := Scope(".btn { color: red } .btn-primary { color: blue }", "Button")
	if err != nil {
		t.Fatalf("Scope error = %v", err)
	}

	primary, ok := res.Mapping.Lookup("btn-primary")
	if !ok {
		t.Fatalf("mapping missing btn-primary")
	}
	if !strings.Contains(res.Stylesheet, "."+primary) {
		t.Fatalf("btn-primary not rewritten as a whole token: %q", res.Stylesheet)
	}
	if strings.Contains(res.Stylesheet, "-primary {") && !strings.Contains(res.Stylesheet, primary+" {") {
		t.Fatalf("btn-primary appears split: %q", res.Stylesheet)
	}
}

func TestScopeStableAcrossRuns(t *testing.T) {
	t.Parallel()

	css := ".card { padding: 4px } .card:focus { outline: none }"
	first, err := Scope(css, "Card")
	if err != nil {
		t.Fatalf("Scope error = %v", err)
	}
	second, err := Scope(css, "Card")
	if err != nil {
		t.Fatalf("Scope error = %v", err)
	}
	if first.Stylesheet != second.Stylesheet {
		t.Fatalf("Scope output not stable:\n%q\n%q", first.Stylesheet, second.Stylesheet)
	}
}

func TestScopeMappingPreservesFirstSeenOrder(t *testing.T) {
	t.Parallel()

	res, err := Scope(".z { color: red } .a { color: blue } .z:hover { color: green }", "Panel")
	if err != nil {
		t.Fatalf("Scope error = %v", err)
	}
	want := []string{"z", "a"}
	got := res.ClassNames
	if len(got) != len(want) {
		t.Fatalf("ClassNames = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ClassNames = %v, want %v", got, want)
		}
	}
}

func TestScopeRejectsEmptyComponentName(t *testing.T) {
	t.Parallel()

	if _, err := Scope(".btn{}", ""); err == nil {
		t.Fatalf("expected error for empty component name")
	}
}

func TestScopeDegradedStillEmitsMapping(t *testing.T) {
	t.Parallel()

	res := scopeDegraded(".btn { color: red .broken", "Button")
	if !res.Degraded {
		t.Fatalf("expected degraded result")
	}
	scoped, ok := res.Mapping.Lookup("btn")
	if !ok {
		t.Fatalf("degraded mapping missing btn")
	}
	if !regexp.MustCompile(`^Button_btn_[a-z0-9]{5}$`).MatchString(scoped) {
		t.Fatalf("degraded scoped name %q has wrong shape", scoped)
	}
}

func TestRewriteMarkupReplacesMappedTokensOnly(t *testing.T) {
	t.Parallel()

	mapping := newMapping()
	mapping.add("btn", "Button_btn_abc12")

	got := RewriteMarkup(`<div class="btn framework-class">`, mapping)
	want := `<div class="Button_btn_abc12 framework-class">`
	if got != want {
		t.Fatalf("RewriteMarkup = %q, want %q", got, want)
	}
}

func TestRewriteMarkupPreservesSingleQuotes(t *testing.T) {
	t.Parallel()

	mapping := newMapping()
	mapping.add("btn", "Button_btn_abc12")

	got := RewriteMarkup(`<span class='btn'>`, mapping)
	if got != `<span class='Button_btn_abc12'>` {
		t.Fatalf("RewriteMarkup = %q", got)
	}
}

func TestRewriteMarkupWithoutClassAttributeIsNoOp(t *testing.T) {
	t.Parallel()

	mapping := newMapping()
	mapping.add("btn", "Button_btn_abc12")

	markup := `<div id="btn">btn</div>`
	if got := RewriteMarkup(markup, mapping); got != markup {
		t.Fatalf("RewriteMarkup altered markup without class attribute: %q", got)
	}
}

func TestRewriteMarkupLeavesClassLikeAttributesAlone(t *testing.T) {
	t.Parallel()

	mapping := newMapping()
	mapping.add("btn", "Button_btn_abc12")

	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "data attribute alongside class",
			markup: `<div data-class="btn" class="btn">`,
			want:   `<div data-class="btn" class="Button_btn_abc12">`,
		},
		{
			name:   "framework binding",
			markup: `<div ng-class="btn">`,
			want:   `<div ng-class="btn">`,
		},
		{
			name:   "class at start of input",
			markup: `class="btn"`,
			want:   `class="Button_btn_abc12"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RewriteMarkup(tt.markup, mapping); got != tt.want {
				t.Fatalf("RewriteMarkup = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRewriteMarkupEmptyMappingIsNoOp(t *testing.T) {
	t.Parallel()

	markup := `<div class="btn">`
	if got := RewriteMarkup(markup, newMapping()); got != markup {
		t.Fatalf("RewriteMarkup = %q, want unchanged", got)
	}
}
