package tabular

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func writeTemp(t *testing.T, header []string, rows [][]string, opts Options) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.csv")
	w := NewWriter(gofakeit.New(3))
	require.NoError(t, w.WriteFile(path, header, rows, opts))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestWriteFilePlain(t *testing.T) {
	data := writeTemp(t,
		[]string{"a", "b"},
		[][]string{{"1", "x"}, {"2", "y"}},
		Options{})

	assert.Equal(t, "a,b\n1,x\n2,y\n", string(data))
}

func TestWriteFileHeaderOnly(t *testing.T) {
	data := writeTemp(t, []string{"a", "b", "c"}, nil, Options{})
	assert.Equal(t, "a,b,c\n", string(data))
}

func TestWriteFileDelimiter(t *testing.T) {
	data := writeTemp(t,
		[]string{"a", "b"},
		[][]string{{"1", "x"}},
		Options{Delimiter: ';'})

	assert.Equal(t, "a;b\n1;x\n", string(data))
}

func TestWriteFileBOM(t *testing.T) {
	data := writeTemp(t, []string{"a"}, [][]string{{"1"}}, Options{BOM: true})

	assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	assert.Equal(t, "a\n1\n", string(data[3:]))
}

func TestWriteFileLegacyEncoding(t *testing.T) {
	data := writeTemp(t,
		[]string{"region", "campaign"},
		[][]string{{"REG_01", "Распродажа"}},
		Options{Legacy: true})

	assert.False(t, utf8.Valid(data), "legacy output should not be valid UTF-8")

	decoded, err := charmap.Windows1251.NewDecoder().Bytes(data)
	require.NoError(t, err)
	assert.Equal(t, "region,campaign\nREG_01,Распродажа\n", string(decoded))
}

func TestWriteFileLegacyBeatsBOM(t *testing.T) {
	data := writeTemp(t, []string{"a"}, [][]string{{"1"}}, Options{BOM: true, Legacy: true})

	assert.False(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	assert.Equal(t, "a\n1\n", string(data))
}

func TestWriteFileDamagedLines(t *testing.T) {
	rows := make([][]string, 1000)
	for i := range rows {
		rows[i] = []string{"v1", "v2", "v3"}
	}
	data := writeTemp(t, []string{"a", "b", "c"}, rows, Options{Damage: true})

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 1001)

	damaged := 0
	for _, line := range lines[1:] {
		if strings.HasSuffix(line, damagedSuffix) {
			damaged++
			assert.Equal(t, "v1,v2,v3"+damagedSuffix, line)
		} else {
			assert.Equal(t, "v1,v2,v3", line)
		}
	}
	// Roughly one row in twenty; generous bounds keep this stable.
	assert.Greater(t, damaged, 10)
	assert.Less(t, damaged, 150)
}

func TestWriteFileDamagedLinesKeepDelimiter(t *testing.T) {
	rows := make([][]string, 500)
	for i := range rows {
		rows[i] = []string{"1", "2"}
	}
	data := writeTemp(t, []string{"a", "b"}, rows, Options{Delimiter: ';', Damage: true})

	assert.Contains(t, string(data), "1;2"+damagedSuffix)
	assert.NotContains(t, string(data), ",")
}

func TestWriteFileQuotesFieldsWithDelimiter(t *testing.T) {
	data := writeTemp(t,
		[]string{"a", "b"},
		[][]string{{"plain", "with,comma"}},
		Options{})

	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"plain", "with,comma"}, records[1])
}

func TestWriteFileBadPath(t *testing.T) {
	w := NewWriter(gofakeit.New(3))
	err := w.WriteFile(filepath.Join(t.TempDir(), "missing", "out.csv"), []string{"a"}, nil, Options{})
	assert.Error(t, err)
}

func TestRecords(t *testing.T) {
	rows := Records([]pair{{"1", "2"}, {"3", "4"}})
	assert.Equal(t, [][]string{{"1", "2"}, {"3", "4"}}, rows)
}

type pair struct{ a, b string }

func (p pair) Fields() []string { return []string{p.a, p.b} }
