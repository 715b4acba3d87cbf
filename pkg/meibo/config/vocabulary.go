package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/meibo/pkg/meibo/internalerr"
	"github.com/cognicore/meibo/pkg/meibo/vocab"
)

// VocabularyFile is the YAML form of a vocabulary override. Omitted
// lists keep the built-in defaults.
type VocabularyFile struct {
	SinglePersonTitles []string `yaml:"single_person_titles"`
	MassTitles         []string `yaml:"mass_titles"`
	OfficeSuffixes     []string `yaml:"office_suffixes"`
	StampKeywords      []string `yaml:"stamp_keywords"`
	DraftedKeywords    []string `yaml:"drafted_keywords"`
}

// LoadVocabulary loads a vocabulary file and merges it over the defaults
func LoadVocabulary(path string) (*vocab.Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseVocabulary(data)
}

// ParseVocabulary decodes YAML vocabulary data over the defaults.
func ParseVocabulary(data []byte) (*vocab.Vocabulary, error) {
	var vf VocabularyFile
	if err := yaml.Unmarshal(data, &vf); err != nil {
		return nil, fmt.Errorf("%w: vocabulary: %v", internalerr.ErrInvalidConfig, err)
	}
	v := vocab.Default().Merge(vocab.Vocabulary{
		OfficeSuffixes:     vf.OfficeSuffixes,
		SinglePersonTitles: vf.SinglePersonTitles,
		MassTitles:         vf.MassTitles,
		StampKeywords:      vf.StampKeywords,
		DraftedKeywords:    vf.DraftedKeywords,
	})
	return &v, nil
}
