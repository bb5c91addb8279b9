// Package recognition turns an uploaded food photo into recipe suggestions.
// RecipeLens is tried first, then a local recognizer, then a random pick.
package recognition

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// Source names the stage that produced a Result.
type Source string

const (
	SourceRecipeLens Source = "recipelens"
	SourceLocal      Source = "local"
	SourceRandom     Source = "random"
)

// ErrProcessingImage is returned when the upload cannot be decoded as an image.
var ErrProcessingImage = errors.New("error processing image")

type Lens interface {
	Lookup(ctx context.Context, filename string, image []byte) ([]string, error)
}

type Recognizer interface {
	Recognize(image []byte) ([]string, error)
}

type Result struct {
	Recipes []Recipe `json:"recipes"`
	Source  Source   `json:"source"`
}

type Service struct {
	lens   Lens
	local  Recognizer
	corpus *Corpus
	log    zerolog.Logger
}

// NewService wires the chain. lens may be nil to skip RecipeLens.
func NewService(lens Lens, local Recognizer, corpus *Corpus, log zerolog.Logger) *Service {
	return &Service{lens: lens, local: local, corpus: corpus, log: log}
}

func (s *Service) Recognize(ctx context.Context, filename string, image []byte) (Result, error) {
	if s.lens != nil {
		names, err := s.lens.Lookup(ctx, filename, image)
		if err != nil {
			s.log.Warn().Err(err).Msg("RecipeLens unavailable, falling back to local recognizer")
		} else if recipes := s.corpus.Match(names); len(recipes) > 0 {
			return Result{Recipes: recipes, Source: SourceRecipeLens}, nil
		} else {
			s.log.Info().Strs("names", names).Msg("No corpus match for RecipeLens suggestions")
		}
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	guesses, err := s.local.Recognize(image)
	if err != nil {
		s.log.Error().Err(err).Msg("Local recognition failed")
		return Result{}, ErrProcessingImage
	}
	if recipes := s.corpus.Match(guesses); len(recipes) > 0 {
		return Result{Recipes: recipes, Source: SourceLocal}, nil
	}

	return Result{Recipes: s.corpus.Sample(maxResults), Source: SourceRandom}, nil
}
