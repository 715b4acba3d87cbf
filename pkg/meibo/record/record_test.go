package record

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/meibo/pkg/meibo/gender"
)

func TestParseColumns(t *testing.T) {
	cols, unknown := ParseColumns("")
	assert.Equal(t, DefaultColumns(), cols)
	assert.Nil(t, unknown)
	assert.NotContains(t, cols, ColRawText)

	cols, unknown = ParseColumns("name, Office,staff_id,name,,raw_text")
	assert.Equal(t, []Column{ColName, ColOffice, ColRawText}, cols)
	assert.Equal(t, []string{"staff_id"}, unknown)
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WriterOptions{Columns: []Column{ColOffice, ColPosition, ColName, ColIsName, ColDrafted, ColGenderModern, ColX}})
	require.NoError(t, w.Write(
		Record{Office: "所得税課", Position: "課長", Name: "田中太郎", IsName: true, GenderModern: gender.Male, X: 12},
		Record{Office: "所得税課", Position: "Unknown", Name: "鈴木, 花子", Drafted: true, GenderModern: gender.Female},
	))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "office,position,name,is_name,drafted,gender_modern,x", lines[0])
	assert.Equal(t, "所得税課,課長,田中太郎,True,False,male,12", lines[1])
	assert.Equal(t, `所得税課,Unknown,"鈴木, 花子",False,True,female,0`, lines[2])
}

func TestWriterBOMAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WriterOptions{BOM: true})
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\ufeffyear,office,"))
	assert.Equal(t, 1, strings.Count(out, "\n"), "header written once")
}
