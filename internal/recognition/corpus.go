package recognition

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// maxResults caps how many recipes matching collects before it stops.
const maxResults = 10

//go:embed data/recipes.json
var defaultCorpus []byte

// Recipe is a corpus entry. Only Name takes part in matching. A recipe decoded
// from JSON keeps its source record and encodes back to it unchanged, so
// fields outside this struct survive a round trip.
type Recipe struct {
	Name         string   `json:"name"`
	Cuisine      string   `json:"cuisine,omitempty"`
	Course       string   `json:"course,omitempty"`
	Diet         string   `json:"diet,omitempty"`
	PrepTime     string   `json:"prep_time,omitempty"`
	CookTime     string   `json:"cook_time,omitempty"`
	Ingredients  []string `json:"ingredients,omitempty"`
	Instructions []string `json:"instructions,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`

	raw json.RawMessage
}

// recipeFields has Recipe's fields without its JSON methods.
type recipeFields Recipe

func (r *Recipe) UnmarshalJSON(data []byte) error {
	var f recipeFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = Recipe(f)
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (r Recipe) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}
	return json.Marshal(recipeFields(r))
}

// Corpus is the read-only recipe collection recognized names are matched
// against.
type Corpus struct {
	recipes []Recipe
}

// NewCorpus keeps the recipes that have a name.
func NewCorpus(recipes []Recipe) *Corpus {
	kept := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if strings.TrimSpace(r.Name) == "" {
			continue
		}
		kept = append(kept, r)
	}
	return &Corpus{recipes: kept}
}

// LoadCorpus reads the corpus from path, or the embedded default when path is
// empty. A file that cannot be read or parsed yields an empty corpus.
func LoadCorpus(path string, log zerolog.Logger) *Corpus {
	data := defaultCorpus
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("Failed to read recipe corpus")
			return NewCorpus(nil)
		}
		data = b
	}

	recipes, err := parseCorpus(data)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to parse recipe corpus")
		return NewCorpus(nil)
	}

	corpus := NewCorpus(recipes)
	if skipped := len(recipes) - corpus.Len(); skipped > 0 {
		log.Warn().Int("skipped", skipped).Str("path", path).Msg("Skipped corpus recipes without a name")
	}
	log.Info().Int("recipes", corpus.Len()).Msg("Recipe corpus loaded")
	return corpus
}

func parseCorpus(data []byte) ([]Recipe, error) {
	var recipes []Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	return recipes, nil
}

func (c *Corpus) Len() int {
	return len(c.recipes)
}

// Match returns the corpus recipes whose name contains, or is contained in,
// one of names, ignoring case. Each recipe appears once. Names are consumed
// in order and matching stops after the name that brings the total to
// maxResults or more, so the result may exceed maxResults.
func (c *Corpus) Match(names []string) []Recipe {
	matched := []Recipe{}
	seen := make(map[string]bool)

	for _, name := range names {
		needle := strings.ToLower(strings.TrimSpace(name))
		if needle == "" {
			continue
		}
		for _, r := range c.recipes {
			candidate := strings.ToLower(r.Name)
			if !strings.Contains(candidate, needle) && !strings.Contains(needle, candidate) {
				continue
			}
			if seen[r.Name] {
				continue
			}
			seen[r.Name] = true
			matched = append(matched, r)
		}
		if len(matched) >= maxResults {
			break
		}
	}
	return matched
}

// Sample returns up to n distinct recipes in random order.
func (c *Corpus) Sample(n int) []Recipe {
	if n > len(c.recipes) {
		n = len(c.recipes)
	}
	out := make([]Recipe, 0, n)
	for _, i := range rand.Perm(len(c.recipes))[:n] {
		out = append(out, c.recipes[i])
	}
	return out
}
