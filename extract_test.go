package spritesort

import "testing"

func TestIsImageFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"0001.png", true},
		{"6-mega-x.PNG", true},
		{"25.gif", true},
		{"25.jpg", true},
		{"25.jpeg", true},
		{"25.webp", true},
		{"readme.txt", false},
		{"25", false},
		{"25.png.bak", false},
		{".png", true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsImageFile(tc.name); got != tc.want {
				t.Errorf("IsImageFile(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestExtractID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		want   EntityID
		wantOK bool
	}{
		{name: "6.png", want: 6, wantOK: true},
		{name: "6-mega-x.png", want: 6, wantOK: true},
		{name: "0001.png", want: 1, wantOK: true},
		{name: "150.png", want: 150, wantOK: true},
		{name: "0.png", want: 0, wantOK: true},
		{name: "10091-alola.png", want: 10091, wantOK: true},
		{name: "12ab34.png", want: 12, wantOK: true},

		// No leading digits.
		{name: "sprite.png", wantOK: false},
		{name: "a6.png", wantOK: false},
		{name: "-6.png", wantOK: false},
		{name: " 6.png", wantOK: false},
		{name: "", wantOK: false},

		// Overflows int.
		{name: "99999999999999999999999.png", wantOK: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ExtractID(tc.name)
			if ok != tc.wantOK {
				t.Fatalf("ExtractID(%q) ok = %v, want %v", tc.name, ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Errorf("ExtractID(%q) = %d, want %d", tc.name, got, tc.want)
			}
		})
	}
}

func TestSourceFilePath(t *testing.T) {
	t.Parallel()

	f := SourceFile{Dir: "sprites", Name: "6.png"}
	if got, want := f.Path(), "sprites/6.png"; got != want && got != `sprites\6.png` {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}
