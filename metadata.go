package spritesort

import (
	"bytes"

	"github.com/bep/imagemeta"
)

// SpriteMetadata holds the authorship fields found in EXIF and XMP.
type SpriteMetadata struct {
	Artist    string `json:"artist,omitempty"`
	Copyright string `json:"copyright,omitempty"`
	Software  string `json:"software,omitempty"`
	Creator   string `json:"creator,omitempty"`
	Rights    string `json:"rights,omitempty"`
}

type metadataSetter func(m *SpriteMetadata, v string)

// metadataFields lists the tags read per source and where each one lands.
var metadataFields = map[imagemeta.Source]map[string]metadataSetter{
	imagemeta.EXIF: {
		"Artist":    func(m *SpriteMetadata, v string) { m.Artist = v },
		"Copyright": func(m *SpriteMetadata, v string) { m.Copyright = v },
		"Software":  func(m *SpriteMetadata, v string) { m.Software = v },
	},
	imagemeta.XMP: {
		"Creator": func(m *SpriteMetadata, v string) { m.Creator = v },
		"Rights":  func(m *SpriteMetadata, v string) { m.Rights = v },
	},
}

func metadataSetterFor(ti imagemeta.TagInfo) metadataSetter {
	return metadataFields[ti.Source][ti.Tag]
}

// ExtractMetadata reads authorship tags from raw image bytes.
// Returns nil when the data carries none or cannot be parsed.
func ExtractMetadata(data []byte) *SpriteMetadata {
	if len(data) == 0 {
		return nil
	}

	var meta *SpriteMetadata
	err := imagemeta.Decode(imagemeta.Options{
		R:       bytes.NewReader(data),
		Sources: imagemeta.EXIF | imagemeta.XMP,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return metadataSetterFor(ti) != nil
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			set := metadataSetterFor(ti)
			s := tagValueString(ti.Value)
			if set == nil || s == "" {
				return nil
			}
			if meta == nil {
				meta = &SpriteMetadata{}
			}
			set(meta, s)
			return nil
		},
	})
	if err != nil {
		return nil
	}
	return meta
}

// tagValueString returns the first string of a tag value.
// XMP alt and seq lists arrive as slices.
func tagValueString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		if len(val) > 0 {
			return val[0]
		}
	case []any:
		if len(val) > 0 {
			s, _ := val[0].(string)
			return s
		}
	}
	return ""
}
