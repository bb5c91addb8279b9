package recognition

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math/rand/v2"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// dishes is the vocabulary the local recognizer draws its guesses from.
var dishes = []string{
	"butter chicken", "chicken tikka masala", "biryani", "samosa",
	"naan", "dosa", "idli", "palak paneer", "chana masala",
	"aloo gobi", "tandoori chicken", "rogan josh", "dal makhani",
	"gulab jamun", "jalebi", "lassi", "masala chai", "pav bhaji",
	"chole bhature", "rajma", "malai kofta", "bhindi masala",
	"vegetable korma", "chicken vindaloo", "fish curry",
	"mutter paneer", "baingan bharta", "dhokla", "kachori",
	"gajar ka halwa", "rasmalai", "kheer", "rasgulla",
}

const (
	minGuesses = 5
	maxGuesses = 10
)

// LocalRecognizer produces dish guesses without any model. The guesses are a
// deterministic function of the image's header, so the same picture always
// yields the same dishes.
type LocalRecognizer struct{}

// Recognize decodes the image header and returns between 5 and 10 distinct
// dish names. It fails when the bytes are not a supported image format.
func (LocalRecognizer) Recognize(data []byte) ([]string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	seed := uint64(cfg.Width + cfg.Height + len(format))
	rng := rand.New(rand.NewPCG(seed, seed))

	n := minGuesses + rng.IntN(maxGuesses-minGuesses+1)
	guesses := make([]string, 0, n)
	for _, i := range rng.Perm(len(dishes))[:n] {
		guesses = append(guesses, dishes[i])
	}
	return guesses, nil
}
