// SPDX-License-Identifier: AGPL-3.0-or-later

package badge

import (
	"math"
	"strings"
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func testFont(t testing.TB) *Font {
	t.Helper()
	f, err := ParseFont(goregular.TTF)
	if err != nil {
		t.Fatalf("parse gofont: %v", err)
	}
	return f
}

func TestParseFont_Invalid(t *testing.T) {
	if _, err := ParseFont([]byte("not a font")); err == nil {
		t.Error("expected error for invalid font data")
	}
}

func TestParseFont_Name(t *testing.T) {
	f := testFont(t)
	if f.Name() == "" {
		t.Error("expected family name from the name table")
	}
}

func TestRoundUpToOdd(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{0, 1},
		{1, 1},
		{2, 3},
		{7, 7},
		{10, 11},
		{99, 99},
		{100, 101},
		{4.2, 5},
		{5.5, 7},
	}

	for _, tt := range tests {
		if got := RoundUpToOdd(tt.input); got != tt.expected {
			t.Errorf("RoundUpToOdd(%v) = %v, expected %v", tt.input, got, tt.expected)
		}
	}

	for n := 0; n < 500; n++ {
		got := RoundUpToOdd(float64(n))
		want := float64(n)
		if n%2 == 0 {
			want++
		}
		if got != want {
			t.Fatalf("RoundUpToOdd(%d) = %v, expected %v", n, got, want)
		}
	}
}

func TestMeasure_Empty(t *testing.T) {
	f := testFont(t)

	for _, s := range []string{"", "\n", "\t\r\x00"} {
		w, h := f.Measure(s, MeasureScale)
		if w != 0 {
			t.Errorf("Measure(%q) width = %v, expected 0", s, w)
		}
		if h <= 0 {
			t.Errorf("Measure(%q) height = %v, expected positive", s, h)
		}
	}
}

func TestMeasure_IgnoresControlCharacters(t *testing.T) {
	f := testFont(t)

	plain, _ := f.Measure("Profile views", MeasureScale)
	noisy, _ := f.Measure("Profile\x07 views\n", MeasureScale)
	if plain != noisy {
		t.Errorf("control characters changed width: %v vs %v", plain, noisy)
	}
}

func TestMeasure_WholePixels(t *testing.T) {
	f := testFont(t)

	w, _ := f.Measure("Profile views", MeasureScale)
	if w <= 0 {
		t.Fatalf("expected positive width, got %v", w)
	}
	if w != math.Ceil(w) {
		t.Errorf("width %v is not a whole pixel", w)
	}
}

func TestMeasure_HeightIndependentOfText(t *testing.T) {
	f := testFont(t)

	_, h1 := f.Measure("a", MeasureScale)
	_, h2 := f.Measure("Quite a lot longer, with descenders: gjpqy", MeasureScale)
	if h1 != h2 {
		t.Errorf("height depends on content: %v vs %v", h1, h2)
	}
	if h1 < MeasureScale {
		t.Errorf("line height %v should be at least the scale %v", h1, MeasureScale)
	}
}

func TestMeasure_ScalesLinearly(t *testing.T) {
	f := testFont(t)

	_, h11 := f.Measure("x", 11)
	_, h22 := f.Measure("x", 22)
	if math.Abs(h22-2*h11) > 1e-9 {
		t.Errorf("height at 22 (%v) should be twice height at 11 (%v)", h22, h11)
	}
}

func TestPreferredWidth_OddBase(t *testing.T) {
	f := testFont(t)

	for _, s := range []string{"", "1", "42", "Profile views", "Hello, World!", "ünïcödé"} {
		base := f.PreferredWidth(s, MeasureScale) / widthFudge
		rounded := math.Round(base)
		if math.Abs(base-rounded) > 1e-9 {
			t.Errorf("PreferredWidth(%q) base %v is not an integer", s, base)
			continue
		}
		if int(rounded)%2 != 1 {
			t.Errorf("PreferredWidth(%q) base %v is not odd", s, rounded)
		}
	}
}

func TestPreferredWidth_EmptyIsPositive(t *testing.T) {
	f := testFont(t)

	if got := f.PreferredWidth("", MeasureScale); got != widthFudge {
		t.Errorf("PreferredWidth(\"\") = %v, expected %v", got, widthFudge)
	}
}

func TestPreferredWidth_Monotonic(t *testing.T) {
	f := testFont(t)

	text := "Profile views: 1234567890 WAVE"
	prev := 0.0
	for i := 0; i <= len(text); i++ {
		w := f.PreferredWidth(text[:i], MeasureScale)
		if w < prev {
			t.Fatalf("PreferredWidth(%q) = %v decreased from %v", text[:i], w, prev)
		}
		prev = w
	}
}

func TestPreferredWidth_Deterministic(t *testing.T) {
	f := testFont(t)
	other := testFont(t)

	a := f.PreferredWidth("Profile views", MeasureScale)
	b := f.PreferredWidth("Profile views", MeasureScale)
	c := other.PreferredWidth("Profile views", MeasureScale)
	if a != b || a != c {
		t.Errorf("PreferredWidth not deterministic: %v, %v, %v", a, b, c)
	}
}

func TestMeasure_ConcurrentUse(t *testing.T) {
	f := testFont(t)
	want, _ := f.Measure("Profile views", MeasureScale)

	var wg sync.WaitGroup
	errs := make(chan float64, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got, _ := f.Measure("Profile views", MeasureScale); got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)

	for got := range errs {
		t.Errorf("concurrent Measure = %v, expected %v", got, want)
	}
}

func TestMeasure_LongerTextIsWider(t *testing.T) {
	f := testFont(t)

	short, _ := f.Measure("42", MeasureScale)
	long, _ := f.Measure(strings.Repeat("42", 10), MeasureScale)
	if long <= short {
		t.Errorf("expected longer text to be wider: %v <= %v", long, short)
	}
}
