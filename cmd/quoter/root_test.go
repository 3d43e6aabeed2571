package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"curve-mm-go/market"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliConfig = `
env: dev
market:
  id: rETH-ETH
curve:
  minSpreadBp: 100
  maxSpreadBp: 1000
  exponent: 3
  rangeFocus: 0.5
ladder:
  slices: 1
safety:
  lower: 0.5
  upper: 2
fees:
  base: 1
  quote: 1
priceFeed:
  static: 1.05
inventory:
  assetA: 2000
  assetB: 200
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cliConfig), 0o644))

	root := newRootCmd(context.Background())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", path))
	err := root.Execute()
	return out.String(), err
}

func TestSpreadCommand(t *testing.T) {
	out, err := run(t, "spread", "--side", "buy", "--a", "10", "--b", "10")
	require.NoError(t, err)
	assert.Equal(t, "100.0000", strings.TrimSpace(out))

	_, err = run(t, "spread", "--side", "sideways")
	assert.Error(t, err)
}

func TestLadderCommand(t *testing.T) {
	out, err := run(t, "ladder", "--fair", "1.05")
	require.NoError(t, err)

	var resp struct {
		Market    string     `json:"market"`
		FairPrice string     `json:"fairPrice"`
		Ladder    [][]string `json:"ladder"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "rETH-ETH", resp.Market)
	assert.Equal(t, "1.05", resp.FairPrice)
	require.Len(t, resp.Ladder, 2)
	assert.Equal(t, "b", resp.Ladder[0][0])
	assert.Equal(t, "s", resp.Ladder[1][0])

	_, err = run(t, "ladder", "--fair", "3")
	assert.ErrorIs(t, err, market.ErrUnsafePrice)
}

func TestEvaluateCommand(t *testing.T) {
	out, err := run(t, "evaluate", "--side", "buy", "--fair", "1", "--a", "10", "--b", "11.1")
	require.NoError(t, err)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, true, resp["accepted"])
	assert.Equal(t, "1.01", resp["requiredPrice"])

	_, err = run(t, "evaluate", "--side", "sell", "--fair", "1", "--a", "1", "--b", "1")
	assert.Error(t, err, "sell amount must exceed the base fee")

	_, err = run(t, "evaluate", "--side", "buy", "--fair", "0.4", "--a", "10", "--b", "11.1")
	assert.ErrorIs(t, err, market.ErrUnsafePrice)
}

func TestCheckCommand(t *testing.T) {
	out, err := run(t, "check")
	require.NoError(t, err)
	assert.Equal(t, "safe 1.05", strings.TrimSpace(out))

	_, err = run(t, "check", "--price", "2")
	assert.ErrorIs(t, err, market.ErrUnsafePrice)
}
