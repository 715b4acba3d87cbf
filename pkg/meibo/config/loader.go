package config

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/meibo/pkg/meibo/classify"
	"github.com/cognicore/meibo/pkg/meibo/compiler"
	"github.com/cognicore/meibo/pkg/meibo/gender"
	"github.com/cognicore/meibo/pkg/meibo/internalerr"
	"github.com/cognicore/meibo/pkg/meibo/lookup"
	"github.com/cognicore/meibo/pkg/meibo/names"
	"github.com/cognicore/meibo/pkg/meibo/noise"
	"github.com/cognicore/meibo/pkg/meibo/vocab"
)

// Loader loads all configuration files and constructs components
type Loader struct {
	CrosswalkPath  string
	Column         string
	VocabularyPath string
	// Analyzer is a names kind: "kagome" (default) or "heuristic".
	Analyzer string
	// Thresholds overrides the default noise thresholds when set.
	Thresholds *noise.Thresholds
}

// Components holds all loaded configuration components
type Components struct {
	Crosswalk  *lookup.Crosswalk
	Vocabulary *vocab.Vocabulary
	Offices    *classify.OfficeClassifier
	Positions  *classify.PositionClassifier
	Noise      *noise.Filter
	Oracle     *names.Oracle
	Legacy     gender.Classifier
	Modern     gender.Classifier
}

// Load reads all configuration files and returns initialized components.
// A missing or unreadable crosswalk degrades to empty lookups; a bad
// vocabulary file is an error.
func (l *Loader) Load(logger *zap.Logger) (*Components, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	comp := &Components{
		Legacy: gender.Legacy(),
		Modern: gender.Modern(),
	}

	// Load vocabulary
	if l.VocabularyPath != "" {
		v, err := LoadVocabulary(l.VocabularyPath)
		if err != nil {
			if !errors.Is(err, internalerr.ErrInvalidConfig) {
				err = fmt.Errorf("%w: %w", internalerr.ErrInvalidConfig, err)
			}
			return nil, fmt.Errorf("load vocabulary %s: %w", l.VocabularyPath, err)
		}
		comp.Vocabulary = v
	} else {
		v := vocab.Default()
		comp.Vocabulary = &v
	}

	comp.Crosswalk = lookup.LoadOrEmpty(l.CrosswalkPath, l.Column, logger)

	th := noise.DefaultThresholds()
	if l.Thresholds != nil {
		th = *l.Thresholds
	}
	v := *comp.Vocabulary
	comp.Offices = classify.NewOfficeClassifier(comp.Crosswalk.Headers, v)
	comp.Positions = classify.NewPositionClassifier(comp.Crosswalk.Titles)
	comp.Noise = noise.NewFilter(th, v)
	comp.Oracle = names.NewOracle(names.Select(l.Analyzer, logger), v)

	return comp, nil
}

// CompilerOptions returns compiler options sharing the loaded
// components. Layout and run fields are left for the caller.
func (c *Components) CompilerOptions(logger *zap.Logger) compiler.Options {
	return compiler.Options{
		Crosswalk:  c.Crosswalk,
		Oracle:     c.Oracle,
		Legacy:     c.Legacy,
		Modern:     c.Modern,
		Noise:      c.Noise,
		Vocabulary: c.Vocabulary,
		Logger:     logger,
	}
}
