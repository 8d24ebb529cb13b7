package game

import (
	"errors"
	"testing"
)

func TestDealProperties(t *testing.T) {
	deal := NewDealer(ImagePool(45))

	for _, pairCount := range []int{1, 4, 8, 45} {
		cards, err := deal(pairCount)
		if err != nil {
			t.Fatalf("deal(%d): %v", pairCount, err)
		}
		if len(cards) != pairCount*2 {
			t.Fatalf("deal(%d) = %d cards; want %d", pairCount, len(cards), pairCount*2)
		}

		imageCounts := make(map[string]int)
		for i, c := range cards {
			if c.ID != i {
				t.Fatalf("deal(%d): card at position %d has id %d", pairCount, i, c.ID)
			}
			if c.IsFlipped || c.IsMatched {
				t.Fatalf("deal(%d): card %d dealt face up or matched", pairCount, i)
			}
			if c.Image == "" {
				t.Fatalf("deal(%d): card %d has empty image", pairCount, i)
			}
			imageCounts[c.Image]++
		}

		if len(imageCounts) != pairCount {
			t.Fatalf("deal(%d) used %d distinct images; want %d", pairCount, len(imageCounts), pairCount)
		}
		for img, n := range imageCounts {
			if n != 2 {
				t.Fatalf("deal(%d): image %s appears %d times; want 2", pairCount, img, n)
			}
		}
	}
}

func TestDealShuffles(t *testing.T) {
	deal := NewDealer(ImagePool(45))

	first, err := deal(20)
	if err != nil {
		t.Fatal(err)
	}

	// 40 cards have 40! orderings; identical consecutive deals mean the
	// shuffle is broken. Retry a few times to keep this deterministic in
	// practice.
	for i := 0; i < 5; i++ {
		next, err := deal(20)
		if err != nil {
			t.Fatal(err)
		}
		same := true
		for j := range next {
			if next[j].Image != first[j].Image {
				same = false
				break
			}
		}
		if !same {
			return
		}
	}
	t.Fatal("five consecutive deals produced identical decks")
}

func TestDealErrors(t *testing.T) {
	deal := NewDealer(ImagePool(10))

	cases := []struct {
		name      string
		pairCount int
		wantErr   error
	}{
		{"zero pairs", 0, ErrInvalidConfig},
		{"negative pairs", -3, ErrInvalidConfig},
		{"pool exceeded", 11, ErrInsufficientImages},
	}

	for _, tc := range cases {
		if _, err := deal(tc.pairCount); !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: deal(%d) err = %v; want %v", tc.name, tc.pairCount, err, tc.wantErr)
		}
	}
}

func TestImagePool(t *testing.T) {
	pool := ImagePool(3)
	want := []string{"/images/bild1.jpg", "/images/bild2.jpg", "/images/bild3.jpg"}
	if len(pool) != len(want) {
		t.Fatalf("pool size = %d; want %d", len(pool), len(want))
	}
	for i := range want {
		if pool[i] != want[i] {
			t.Errorf("pool[%d] = %s; want %s", i, pool[i], want[i])
		}
	}
}
