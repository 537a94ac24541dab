package names

import (
	"regexp"
	"testing"
)

func TestAliasOrName(t *testing.T) {
	// A real phone build string a survey device once reported as its name.
	troublesome := `QP1A_191005_007_A3_Pixel_XL`
	if err := SetAliases(map[string]string{"ridgewalk": `(?i)pixel`}); err != nil {
		t.Fatal(err)
	}
	defer func() { Aliases = map[string]*regexp.Regexp{} }()
	want := "ridgewalk"
	got := AliasOrName(troublesome)
	if want != got {
		t.Errorf("got %s, want %s", got, want)
	}
	if got := AliasOrName("no match here!"); got != "no-match-here" {
		t.Errorf("unaliased names sanitize: %s", got)
	}
}

func TestSetAliasesBadPattern(t *testing.T) {
	if err := SetAliases(map[string]string{"x": `([`}); err == nil {
		t.Error("want compile error")
	}
	if len(Aliases) != 0 {
		t.Error("failed install must not leave partial aliases")
	}
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"west transect 3", "west-transect-3"},
		{"  Pixel 7a  ", "Pixel-7a"},
		{"../../../etc/passwd", "etc-passwd"},
		{"..", ""},
		{"", ""},
		{"fine_name-1.2", "fine_name-1.2"},
	}
	for _, c := range cases {
		if got := Sanitize(c.in); got != c.want {
			t.Errorf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
	if OrDefault("") != DefaultName {
		t.Errorf("empty name falls back to %s", DefaultName)
	}
	if OrDefault("x") != "x" {
		t.Errorf("nonempty name passes through")
	}
}
