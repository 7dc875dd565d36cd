package spritesort

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/bep/imagemeta"
)

func TestInspectFile_PNG(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "1.png")
	data := makePNG(40, 30, 3)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := InspectFile(path)
	if err != nil {
		t.Fatalf("InspectFile: %v", err)
	}
	if info.Format != "png" || info.Width != 40 || info.Height != 30 {
		t.Errorf("info = %+v, want png 40x30", info)
	}
	if info.Size != int64(len(data)) {
		t.Errorf("Size = %d, want %d", info.Size, len(data))
	}
	if info.DHash == nil || *info.DHash == 0 {
		t.Error("expected non-zero dhash for a patterned sprite")
	}
	if info.Metadata != nil {
		t.Errorf("Metadata = %+v, want nil for a bare PNG", info.Metadata)
	}
}

func TestInspectFile_GIF(t *testing.T) {
	t.Parallel()

	img := image.NewPaletted(image.Rect(0, 0, 8, 12), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "2.gif")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := InspectFile(path)
	if err != nil {
		t.Fatalf("InspectFile: %v", err)
	}
	if info.Format != "gif" || info.Width != 8 || info.Height != 12 {
		t.Errorf("info = %+v, want gif 8x12", info)
	}
}

func TestInspectFile_NotAnImage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "3.png")
	if err := os.WriteFile(path, []byte("definitely not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := InspectFile(path); err == nil {
		t.Error("expected decode error")
	}
}

func TestInspectFile_Missing(t *testing.T) {
	t.Parallel()

	if _, err := InspectFile(filepath.Join(t.TempDir(), "none.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExtractMetadata_Empty(t *testing.T) {
	t.Parallel()

	if m := ExtractMetadata(nil); m != nil {
		t.Errorf("ExtractMetadata(nil) = %+v, want nil", m)
	}
	if m := ExtractMetadata([]byte{}); m != nil {
		t.Errorf("ExtractMetadata(empty) = %+v, want nil", m)
	}
}

func TestTagValueString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "Ken Sugimori", "Ken Sugimori"},
		{"string slice", []string{"first", "second"}, "first"},
		{"empty slice", []string{}, ""},
		{"any slice", []any{"x"}, "x"},
		{"any slice non-string", []any{1}, ""},
		{"int", 42, ""},
		{"nil", nil, ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tagValueString(tc.in); got != tc.want {
				t.Errorf("tagValueString(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestMetadataSetterFor(t *testing.T) {
	t.Parallel()

	m := &SpriteMetadata{}
	set := metadataSetterFor(imagemeta.TagInfo{Source: imagemeta.EXIF, Tag: "Artist"})
	if set == nil {
		t.Fatal("EXIF Artist must be handled")
	}
	set(m, "Ken Sugimori")
	if m.Artist != "Ken Sugimori" {
		t.Errorf("Artist = %q", m.Artist)
	}

	if metadataSetterFor(imagemeta.TagInfo{Source: imagemeta.IPTC, Tag: "Credit"}) != nil {
		t.Error("IPTC tags are not read")
	}
	if metadataSetterFor(imagemeta.TagInfo{Source: imagemeta.XMP, Tag: "Artist"}) != nil {
		t.Error("Artist is read from EXIF only")
	}
}
