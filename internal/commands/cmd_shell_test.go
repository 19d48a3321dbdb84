package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/calc/internal/core/config"
)

func shellApp(flags *Flags, input string) *cli.Command {
	cmd := NewShellCmd(flags)
	cmd.stdin = strings.NewReader(input)

	return &cli.Command{
		Flags:  cmd.Flags(),
		Action: cmd.Run,
	}
}

func TestShellCmd_AutoloadAndAutosave(t *testing.T) {
	flags := newTestFlags(t, config.FormatCSV)
	seedHistory(t, flags, [3]string{"1", "2", "add"})

	out, err := runApp(t, shellApp(flags, "multiply 3 4\nexit\n"))
	require.NoError(t, err)
	assert.Contains(t, out.stdout, "is equal to 12")

	records := savedRecords(t, flags)
	require.Len(t, records, 2)
	assert.Equal(t, "3", records[0].Result().String())
	assert.Equal(t, "12", records[1].Result().String())
}

func TestShellCmd_UnreadableHistoryIsNotOverwritten(t *testing.T) {
	flags := newTestFlags(t, config.FormatJSON)
	content := `{"calculations": [{"operand1": "1", "operand2": "2", "operation": "add", "result": "3"}],}`
	writeHistoryFile(t, flags, content)

	out, err := runApp(t, shellApp(flags, "add 5 5\n"))
	require.NoError(t, err)
	assert.Contains(t, out.stdout, "Autosave is off for this session")
	assert.Contains(t, out.stdout, "is equal to 10")

	assert.Equal(t, content, readHistoryFile(t, flags))
}

func TestShellCmd_ReportsSkippedRows(t *testing.T) {
	flags := newTestFlags(t, config.FormatCSV)
	writeHistoryFile(t, flags, "operand1,operand2,operation,result\n1,2,add,3\n1,2,pow,1\n")

	out, err := runApp(t, shellApp(flags, ""))
	require.NoError(t, err)
	assert.Contains(t, out.stdout, "Skipped 1 malformed row(s)")

	assert.Len(t, savedRecords(t, flags), 1)
}

func TestShellCmd_NoHistory(t *testing.T) {
	flags := newTestFlags(t, config.FormatCSV)

	_, err := runApp(t, shellApp(flags, "add 1 2\n"), "--no-history")
	require.NoError(t, err)

	assert.Equal(t, 1, flags.History.Len())
	assert.False(t, historyFileExists(flags))
}

func TestShellCmd_AutosaveDisabled(t *testing.T) {
	flags := newTestFlags(t, config.FormatCSV)
	flags.Config.History.Autosave = false

	_, err := runApp(t, shellApp(flags, "add 1 2\n"))
	require.NoError(t, err)
	assert.False(t, historyFileExists(flags))
}
