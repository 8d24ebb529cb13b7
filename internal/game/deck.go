package game

import (
	"fmt"
	"math/rand/v2"
)

// Card is a single position in the dealt deck. ID is the stable 0-based
// position; Image is the opaque image reference shared by exactly one
// other card.
type Card struct {
	ID        int    `json:"id"`
	Image     string `json:"image"`
	IsFlipped bool   `json:"isFlipped"`
	IsMatched bool   `json:"isMatched"`
}

// Dealer builds a shuffled, paired deck of pairCount pairs.
type Dealer func(pairCount int) ([]Card, error)

// ImagePool returns the server-side image references bild1.jpg..bildN.jpg.
func ImagePool(size int) []string {
	pool := make([]string, size)
	for i := range pool {
		pool[i] = fmt.Sprintf("/images/bild%d.jpg", i+1)
	}
	return pool
}

// NewDealer returns a Dealer drawing from the given image pool. Every
// deal picks pairCount distinct images, duplicates them, and applies an
// unbiased random permutation.
func NewDealer(pool []string) Dealer {
	return func(pairCount int) ([]Card, error) {
		if pairCount < 1 {
			return nil, ErrInvalidConfig
		}
		if pairCount > len(pool) {
			return nil, fmt.Errorf("%w: %d pairs, pool of %d", ErrInsufficientImages, pairCount, len(pool))
		}

		picked := make([]string, len(pool))
		copy(picked, pool)
		rand.Shuffle(len(picked), func(i, j int) {
			picked[i], picked[j] = picked[j], picked[i]
		})
		picked = picked[:pairCount]

		images := make([]string, 0, pairCount*2)
		images = append(images, picked...)
		images = append(images, picked...)
		rand.Shuffle(len(images), func(i, j int) {
			images[i], images[j] = images[j], images[i]
		})

		cards := make([]Card, len(images))
		for i, img := range images {
			cards[i] = Card{ID: i, Image: img}
		}
		return cards, nil
	}
}
