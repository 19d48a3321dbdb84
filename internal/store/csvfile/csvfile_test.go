package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/calc/internal/core/calc"
	"github.com/hay-kot/calc/internal/core/history"
)

func record(t *testing.T, a, b string, op calc.Operation) calc.Calculation {
	t.Helper()
	c, err := calc.NewCalculation(decimal.RequireFromString(a), decimal.RequireFromString(b), op)
	require.NoError(t, err)
	return c
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCodec_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	codec := New(zerolog.Nop())

	records := []calc.Calculation{
		record(t, "2.5", "3.1", calc.Add),
		record(t, "10", "4", calc.Divide),
	}
	require.NoError(t, codec.Write(context.Background(), path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "operand1,operand2,operation,result\n2.5,3.1,add,5.6\n10,4,divide,2.5\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file cleaned up")
}

func TestCodec_WriteOverwrites(t *testing.T) {
	path := writeFile(t, "stale content\nmore\n")
	codec := New(zerolog.Nop())

	require.NoError(t, codec.Write(context.Background(), path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "operand1,operand2,operation,result\n", string(data))
}

func TestCodec_WriteMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "history.csv")
	codec := New(zerolog.Nop())

	err := codec.Write(context.Background(), path, []calc.Calculation{record(t, "1", "2", calc.Add)})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCodec_ReadMissingAndEmpty(t *testing.T) {
	codec := New(zerolog.Nop())

	_, _, err := codec.Read(context.Background(), filepath.Join(t.TempDir(), "none.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = codec.Read(context.Background(), writeFile(t, ""))
	assert.ErrorIs(t, err, history.ErrEmptyFile)
}

func TestCodec_ReadSkipsMalformedRows(t *testing.T) {
	content := strings.Join([]string{
		"operand1,operand2,operation,result",
		"2.5,3.1,add,5.6",
		"x,2,multiply,0",          // bad operand
		"1,2,modulo,1",            // unknown operation
		"1,2,add",                 // wrong width
		"10,0,divide,0",           // division by zero
		"1,2,add,4",               // result mismatch
		"1,2,subtract,notanumber", // bad result
		"6,3,divide,2",
		"",
	}, "\n")

	records, skipped, err := New(zerolog.Nop()).Read(context.Background(), writeFile(t, content))
	require.NoError(t, err)
	assert.Equal(t, 6, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, "5.6", records[0].Result().String())
	assert.Equal(t, calc.Divide, records[1].Operation())
}

func TestCodec_ReadUnbalancedQuoteSkipsOnlyItsRow(t *testing.T) {
	content := strings.Join([]string{
		"operand1,operand2,operation,result",
		`1,"2,add,3`,
		"4,5,add,9",
		"6,7,add,13\r",
		"8,9,add,17",
	}, "\n")

	records, skipped, err := New(zerolog.Nop()).Read(context.Background(), writeFile(t, content))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, records, 3)
	assert.Equal(t, "9", records[0].Result().String())
	assert.Equal(t, "13", records[1].Result().String())
	assert.Equal(t, "17", records[2].Result().String())
}

func TestCodec_ReadWithoutHeader(t *testing.T) {
	records, skipped, err := New(zerolog.Nop()).Read(context.Background(), writeFile(t, "1,2,add,3\n4,2,subtract,2\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	assert.Len(t, records, 2)
}

func TestCodec_ReadLegacyLayout(t *testing.T) {
	content := "fld_Operation,fld_Operand1,fld_Operand2\naddition,1,2\ndivision,9,3\nsquare,1,1\n"

	records, skipped, err := New(zerolog.Nop()).Read(context.Background(), writeFile(t, content))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, calc.Add, records[0].Operation())
	assert.Equal(t, "3", records[0].Result().String())
	assert.Equal(t, calc.Divide, records[1].Operation())
	assert.Equal(t, "3", records[1].Result().String())
}

func TestCodec_HistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.csv")
	h := history.New(New(zerolog.Nop()), zerolog.Nop())

	h.Append(record(t, "2.5", "3.1", calc.Add))
	h.Append(record(t, "1", "3", calc.Divide))
	h.Append(record(t, "-0.001", "1000", calc.Multiply))
	h.Append(record(t, "123456789.123456789", "0.000000001", calc.Subtract))
	before := h.All()

	require.NoError(t, h.Save(ctx, path))
	h.Clear()

	n, _, err := h.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, len(before), n)

	after := h.All()
	require.Len(t, after, len(before))
	for i := range before {
		assert.True(t, before[i].Equal(after[i]), "record %d: %s vs %s", i, before[i], after[i])
	}
}

func TestCodec_HistorySaveMissingDirectory(t *testing.T) {
	h := history.New(New(zerolog.Nop()), zerolog.Nop())
	h.Append(record(t, "1", "2", calc.Add))

	err := h.Save(context.Background(), filepath.Join(t.TempDir(), "missing", "history.csv"))
	assert.ErrorIs(t, err, calc.ErrPersistence)
	assert.Equal(t, 1, h.Len())
}
