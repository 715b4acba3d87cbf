package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/meibo/pkg/meibo/compiler"
	"github.com/cognicore/meibo/pkg/meibo/fragment"
	"github.com/cognicore/meibo/pkg/meibo/internalerr"
	"github.com/cognicore/meibo/pkg/meibo/names"
	"github.com/cognicore/meibo/pkg/meibo/noise"
	"github.com/cognicore/meibo/pkg/meibo/vocab"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadVocabularyMergesOverDefaults(t *testing.T) {
	path := writeFile(t, "vocab.yaml", `single_person_titles:
  - 課長
  - 區長
mass_titles: [書記]
`)

	v, err := LoadVocabulary(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"課長", "區長"}, v.SinglePersonTitles)
	assert.Equal(t, []string{"書記"}, v.MassTitles)

	def := vocab.Default()
	assert.Equal(t, def.OfficeSuffixes, v.OfficeSuffixes, "omitted lists keep defaults")
	assert.Equal(t, def.DraftedKeywords, v.DraftedKeywords)
}

func TestParseVocabularyInvalid(t *testing.T) {
	_, err := ParseVocabulary([]byte("mass_titles: {not: [a list"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))
}

func TestLoaderDefaults(t *testing.T) {
	l := &Loader{Analyzer: names.KindHeuristic}
	comp, err := l.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, vocab.Default(), *comp.Vocabulary)
	assert.Zero(t, comp.Crosswalk.Titles.Len())
	assert.True(t, comp.Offices.IsOffice("庶務課"), "suffix rule needs no crosswalk")
	assert.False(t, comp.Positions.Split("課長田中").OK)
	assert.True(t, comp.Oracle.IsPlausible("田中太郎"))
}

func TestLoaderMissingVocabulary(t *testing.T) {
	l := &Loader{VocabularyPath: filepath.Join(t.TempDir(), "missing.yaml"), Analyzer: names.KindHeuristic}
	_, err := l.Load(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))
}

func TestLoaderMissingCrosswalkDegrades(t *testing.T) {
	l := &Loader{CrosswalkPath: filepath.Join(t.TempDir(), "missing.csv"), Analyzer: names.KindHeuristic}
	comp, err := l.Load(nil)
	require.NoError(t, err)
	assert.Zero(t, comp.Crosswalk.Titles.Len())
	assert.Zero(t, comp.Crosswalk.Headers.Len())
}

func TestLoaderComponentsDriveCompiler(t *testing.T) {
	cw := writeFile(t, "crosswalk.csv", "English,Japanese\nSection Chief,課長\nClerk,書記\n")
	vp := writeFile(t, "vocab.yaml", "drafted_keywords: [應召]\n")
	th := noise.DefaultThresholds()

	l := &Loader{CrosswalkPath: cw, Column: "Japanese", VocabularyPath: vp, Analyzer: names.KindHeuristic, Thresholds: &th}
	comp, err := l.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, comp.Crosswalk.Titles.Len())

	split := comp.Positions.Split("課長田中太郎")
	require.True(t, split.OK)
	assert.Equal(t, "課長", split.Title)

	opts := comp.CompilerOptions(nil)
	opts.Year = "1942"
	res := compiler.New(opts).Compile([]fragment.Fragment{
		{Text: "庶務課", Role: fragment.RoleOffice},
		{Text: "課長田中太郎", Role: fragment.RolePositionAndName},
		{Text: "應召", Role: fragment.RoleDrafted},
	})
	require.Len(t, res.Records, 1)
	assert.Equal(t, "庶務課", res.Records[0].Office)
	assert.Equal(t, "課長", res.Records[0].Position)
	assert.Equal(t, "田中太郎", res.Records[0].Name)
	assert.True(t, res.Records[0].Drafted)
}
