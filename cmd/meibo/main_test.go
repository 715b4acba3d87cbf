package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags clears flag values left by a previous Execute.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCompileInspectAndRuns(t *testing.T) {
	dir := t.TempDir()
	crosswalk := writeTemp(t, dir, "crosswalk.csv", "English,Japanese\nSection Chief,課長\nClerk,書記\n")
	input := writeTemp(t, dir, "1942.csv", "text,label,page_number\n"+
		"所得税課,Office,12\n"+
		"課長田中太郎,Position_and_Name,12\n"+
		"書記鈴木一郎,Position_and_Name,12\n"+
		"應召,Drafted,12\n")
	output := filepath.Join(dir, "out", "1942_compiled.csv")
	db := filepath.Join(dir, "runs.db")

	_, err := execute(t, "compile", input,
		"--crosswalk", crosswalk, "--column", "Japanese",
		"--analyzer", "heuristic", "--year", "1942",
		"-o", output, "--db", db)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	csv := string(data)
	assert.True(t, strings.HasPrefix(csv, "\ufeffyear,office,position,grade,name"), "header with BOM")
	assert.Contains(t, csv, "1942,所得税課,課長,,田中太郎")
	assert.Contains(t, csv, "1942,所得税課,書記,,鈴木一郎")
	assert.Equal(t, 3, strings.Count(csv, "\n"), "header plus two records")

	out, err := execute(t, "runs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "1942.csv")
	assert.Contains(t, out, "1942")

	out, err = execute(t, "inspect", "--json", "--analyzer", "heuristic", "--crosswalk", crosswalk, "--column", "Japanese", "課長田中太郎")
	require.NoError(t, err)
	var got []Inspection
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "課長", got[0].Title)
	assert.Equal(t, "田中太郎", got[0].Cleaned)
	assert.True(t, got[0].Plausible)
	assert.False(t, got[0].Office)
}

func TestCompileNothingToWrite(t *testing.T) {
	dir := t.TempDir()
	input := writeTemp(t, dir, "empty.csv", "text,label\n庶務課,Office\n")

	_, err := execute(t, "compile", input, "--analyzer", "heuristic", "-o", filepath.Join(dir, "out.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to write")
	_, statErr := os.Stat(filepath.Join(dir, "out.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCompileMissingInput(t *testing.T) {
	_, err := execute(t, "compile", filepath.Join(t.TempDir(), "missing.csv"), "--analyzer", "heuristic")
	assert.Error(t, err)
}

func TestFormatCounts(t *testing.T) {
	assert.Equal(t, "male=2 female=1 unknown=0", formatCounts(map[string]int{"male": 2, "female": 1}))
}
