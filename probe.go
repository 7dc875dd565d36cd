package spritesort

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/webp"
)

// maxProbeBytes caps how much of a file InspectFile reads.
const maxProbeBytes = 16 << 20

// ImageInfo describes a decoded sprite.
type ImageInfo struct {
	Format   string          `json:"format"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Size     int64           `json:"size"`
	DHash    *uint64         `json:"dhash,omitempty"` // nil when the image could not be hashed
	Metadata *SpriteMetadata `json:"metadata,omitempty"`
}

// InspectFile reads the image at path and reports its format, dimensions,
// perceptual hash and authorship metadata. An error means the file could not
// be read or is not a decodable image; hashing and metadata are best effort.
func InspectFile(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxProbeBytes))
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	info := &ImageInfo{
		Format:   format,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Size:     int64(len(data)),
		Metadata: ExtractMetadata(data),
	}

	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		if h, err := differenceHash(img); err == nil {
			info.DHash = &h
		}
	}
	return info, nil
}
