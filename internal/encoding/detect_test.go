package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/kakeibo/internal/encoding"
)

const sampleCSV = "日付,カテゴリ,金額,メモ,作成日時\n" +
	"2024-06-01,食費,1500,コンビニでお昼ご飯を買いました,2024-06-01T03:00:00.000Z\n" +
	"2024-06-02,交通費,300,電車の切符を買いました,2024-06-02T03:00:00.000Z\n" +
	"2024-06-03,通信費,4800,携帯電話の料金を支払いました,2024-06-03T03:00:00.000Z\n"

func readAll(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	assert.Equal(t, sampleCSV, readAll(t, []byte(sampleCSV)))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	// The exported CSV starts with a UTF-8 BOM, which must be stripped.
	input := append([]byte{0xEF, 0xBB, 0xBF}, sampleCSV...)

	assert.Equal(t, sampleCSV, readAll(t, input))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	input, err := enc.Bytes([]byte(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, sampleCSV, readAll(t, input))
}

func TestNewUTF8Reader_ShiftJIS(t *testing.T) {
	input, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(strings.Repeat(sampleCSV, 4)))
	require.NoError(t, err)

	assert.Equal(t, strings.Repeat(sampleCSV, 4), readAll(t, input))
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	assert.Empty(t, readAll(t, nil))
}
