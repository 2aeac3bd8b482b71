package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Income(t *testing.T) {
	code, stdout, _ := runCommand("3,600,000")
	require.Equal(t, 0, code)

	assert.Contains(t, stdout, "給与の収入金額: 3,600,000円")
	assert.Contains(t, stdout, "給与所得の金額: 2,440,000円")
	assert.Contains(t, stdout, "▶ [ 8]")
}

func TestRun_SplitArguments(t *testing.T) {
	code, stdout, _ := runCommand("--quiet", "1,628,000", "円")
	require.Equal(t, 0, code)
	assert.Equal(t, "給与の収入金額: 1,628,000円\n給与所得の金額: 876,800円\n", stdout)
}

func TestRun_JSON(t *testing.T) {
	code, stdout, _ := runCommand("--json", "1628004")
	require.Equal(t, 0, code)

	var out output
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, output{Income: 1628004, Taxable: "876802.4", Yen: 876802, Bracket: 6}, out)
}

func TestRun_Table(t *testing.T) {
	code, stdout, _ := runCommand("--table")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "1円 ～ 550,999円")
	assert.NotContains(t, stdout, "▶")
}

func TestRun_Invalid(t *testing.T) {
	code, stdout, stderr := runCommand("abc")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "正しい数値を入力してください。\n", stderr)

	code, _, _ = runCommand()
	assert.Equal(t, 2, code)

	code, _, _ = runCommand("--bogus")
	assert.Equal(t, 2, code)
}
