package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quillmont/satprep/internal/model"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// ErrMalformedEtymology means the completion payload did not contain a
// usable etymology object.
var ErrMalformedEtymology = errors.New("failed to analyze word")

// EtymologyService looks up word etymologies through the completion client
// and serves random vocabulary words from an embedded list.
type EtymologyService interface {
	Lookup(ctx context.Context, word string) (*model.Etymology, error)
	RandomWord() model.Etymology
}

type etymologyService struct {
	completion CompletionService
}

func NewEtymologyService(completion CompletionService) EtymologyService {
	return &etymologyService{completion: completion}
}

const etymologyPromptTemplate = `Analyze the etymology of the word "%s" and return a JSON object with this exact structure:
{
  "word": "%s",
  "definition": "precise definition",
  "roots": [
    {
      "root": "root part",
      "origin": "Latin/Greek/etc",
      "meaning": "meaning of this root"
    }
  ],
  "usage": "example sentence using the word"
}
Return only raw JSON without any markdown formatting or additional text`

func (s *etymologyService) Lookup(ctx context.Context, word string) (*model.Etymology, error) {
	prompt := fmt.Sprintf(etymologyPromptTemplate, word, word)
	raw, err := s.completion.GenerateText(ctx, prompt, etymologyTemperature)
	if err != nil {
		return nil, err
	}

	cleaned := StripCodeFences(raw)
	var etymology model.Etymology
	if err := json.Unmarshal([]byte(cleaned), &etymology); err != nil {
		log.Warn().Err(err).Str("word", word).Str("raw", raw).Msg("Etymology payload is not valid JSON")
		return nil, fmt.Errorf("%w: %v", ErrMalformedEtymology, err)
	}
	if etymology.Word == "" || etymology.Definition == "" || len(etymology.Roots) == 0 || etymology.Usage == "" {
		log.Warn().Str("word", word).Interface("etymology", etymology).Msg("Etymology payload is missing required fields")
		return nil, fmt.Errorf("%w: incomplete etymology object", ErrMalformedEtymology)
	}
	return &etymology, nil
}

// RandomWord never calls the model; it samples the embedded SAT list.
func (s *etymologyService) RandomWord() model.Etymology {
	return lo.Sample(satWords)
}

// Sample SAT vocabulary words with etymology.
var satWords = []model.Etymology{
	{
		Word:       "deconstruct",
		Definition: "To break down into constituent parts; to analyze critically",
		Roots: []model.WordRoot{
			{Root: "de-", Origin: "Latin", Meaning: "down, off, away"},
			{Root: "construct", Origin: "Latin", Meaning: "to build, to pile up"},
		},
		Usage: "The literary critic deconstructed the novel to reveal its underlying themes.",
	},
	{
		Word:       "benevolent",
		Definition: "Kind, generous, and caring about others",
		Roots: []model.WordRoot{
			{Root: "bene-", Origin: "Latin", Meaning: "good, well"},
			{Root: "vol", Origin: "Latin", Meaning: "to wish"},
		},
		Usage: "The benevolent donor provided funds for the new children's hospital.",
	},
	{
		Word:       "metamorphosis",
		Definition: "A complete change of physical form or substance",
		Roots: []model.WordRoot{
			{Root: "meta-", Origin: "Greek", Meaning: "change, beyond"},
			{Root: "morph", Origin: "Greek", Meaning: "form, shape"},
		},
		Usage: "The caterpillar's metamorphosis into a butterfly is a remarkable process.",
	},
	{
		Word:       "circumnavigate",
		Definition: "To travel all the way around something, especially by ship",
		Roots: []model.WordRoot{
			{Root: "circum-", Origin: "Latin", Meaning: "around"},
			{Root: "navig", Origin: "Latin", Meaning: "to sail"},
		},
		Usage: "Magellan's expedition was the first to circumnavigate the globe.",
	},
}
