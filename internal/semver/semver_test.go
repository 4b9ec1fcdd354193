package semver

import "testing"

func TestParse(t *testing.T) {
	v, err := Parse("2.7.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Major != 2 || v.Minor != 7 || v.Patch != 1 {
		t.Errorf("expected 2.7.1, got %s", v)
	}
	if v.Prerelease != "" {
		t.Errorf("expected no prerelease, got %q", v.Prerelease)
	}
}

func TestParsePrerelease(t *testing.T) {
	v, err := Parse("1.0.0-beta2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Prerelease != "beta2" {
		t.Errorf("expected prerelease 'beta2', got %q", v.Prerelease)
	}
	if v.String() != "1.0.0-beta2" {
		t.Errorf("round trip failed: %s", v)
	}
}

func TestParseRejects(t *testing.T) {
	bad := []string{
		"",
		"1.2",
		"1.2.3.4",
		"v1.2.3",
		"1.2.3-",
		"1.2.3-beta.2",
		"1.2.3-beta_2",
		"01a.2.3",
		"1.2.x",
	}

	for _, s := range bad {
		if _, err := Parse(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
		if Valid(s) {
			t.Errorf("Valid(%q) should be false", s)
		}
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "2.0.0", -1},
		{"2.1.0", "2.0.9", 1},
		{"2.0.3", "2.0.4", -1},
		{"1.0.0-alpha", "1.0.0", -1},
		{"1.0.0", "1.0.0-rc1", 1},
		{"1.0.0-alpha", "1.0.0-beta", -1},
		{"1.0.0-rc1", "1.0.0-rc1", 0},
	}

	for _, c := range cases {
		got := Compare(MustParse(c.a), MustParse(c.b))
		if got != c.want {
			t.Errorf("Compare(%s, %s) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestCompatible(t *testing.T) {
	cases := []struct {
		have, want string
		ok         bool
	}{
		{"2.3.0", "2.3.9", true},
		{"2.3.7", "2.3.0", true},
		{"2.2.0", "2.3.0", true},
		{"2.4.0", "2.3.0", false},
		{"1.9.0", "2.0.0", false},
		{"3.0.0", "2.9.0", false},
		{"2.3.0-beta1", "2.3.0", true},
	}

	for _, c := range cases {
		got := Compatible(MustParse(c.have), MustParse(c.want))
		if got != c.ok {
			t.Errorf("Compatible(%s, %s) = %v, want %v", c.have, c.want, got, c.ok)
		}
	}
}
