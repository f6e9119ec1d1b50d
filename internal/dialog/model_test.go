package dialog

import "testing"

func TestParseBackendRoundTripsNames(t *testing.T) {
	for _, b := range []Backend{BackendAutomatic, BackendTUI, BackendHeadless} {
		got, err := ParseBackend(b.String())
		if err != nil {
			t.Fatalf("parse %q: %v", b.String(), err)
		}
		if got != b {
			t.Fatalf("expected %v, got %v", b, got)
		}
	}
	if _, err := ParseBackend("fltk"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestParseThemeRoundTripsNames(t *testing.T) {
	themes := []Theme{ThemeSystemDefault, ThemeWindows, ThemeUbuntu, ThemeMacOSLight, ThemeMacOSDark}
	for _, th := range themes {
		got, err := ParseTheme(th.String())
		if err != nil {
			t.Fatalf("parse %q: %v", th.String(), err)
		}
		if got != th {
			t.Fatalf("expected %v, got %v", th, got)
		}
	}
	if _, err := ParseTheme("solarized"); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}

func TestResultIsButton(t *testing.T) {
	if !Pressed(1).IsButton(1) {
		t.Fatalf("expected ButtonPressed(1) to match index 1")
	}
	if Pressed(0).IsButton(1) {
		t.Fatalf("expected ButtonPressed(0) not to match index 1")
	}
	if Closed().IsButton(0) {
		t.Fatalf("expected WindowClosed not to match any button")
	}
	if got := Pressed(2).String(); got != "ButtonPressed(2)" {
		t.Fatalf("unexpected string %q", got)
	}
}

func TestOptionsCloneCopiesButtons(t *testing.T) {
	orig := Options{Title: "t", Buttons: []string{"Cancel", "OK"}}
	dup := orig.Clone()
	dup.Buttons[0] = "No"
	if orig.Buttons[0] != "Cancel" {
		t.Fatalf("clone shares button slice with original")
	}
}
