package spritesort

import (
	"image"

	"github.com/corona10/goimagehash"
)

// dedupThreshold is the maximum Hamming distance between two dHash values
// below which sprites are considered perceptually identical.
const dedupThreshold = 10

// differenceHash returns the dHash of img as a uint64.
func differenceHash(img image.Image) (uint64, error) {
	h, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return 0, err
	}
	return h.GetHash(), nil
}

// sameSprite reports whether two dHash values are within dedupThreshold.
func sameSprite(a, b uint64) bool {
	ha := goimagehash.NewImageHash(a, goimagehash.DHash)
	hb := goimagehash.NewImageHash(b, goimagehash.DHash)
	dist, err := ha.Distance(hb)
	return err == nil && dist < dedupThreshold
}
