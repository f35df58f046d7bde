package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"testing"

	"github.com/brojonat/solparse/service/solana"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// minimalMessageHex returns the hex encoding of a legacy message with one
// writable signer account, a fixed blockhash, and no instructions.
func minimalMessageHex() string {
	msg := []byte{1, 0, 0}
	msg = append(msg, 1)
	msg = append(msg, bytes.Repeat([]byte{0x01}, 32)...)
	msg = append(msg, bytes.Repeat([]byte{0x02}, 32)...)
	msg = append(msg, 0)
	return hex.EncodeToString(msg)
}

func newDecodeApp() *cli.App {
	return &cli.App{
		Name: "solparse",
		Commands: []*cli.Command{
			decodeCommand(),
		},
	}
}

func TestDecodeCommand_RequiresExactlyOneMode(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no mode", []string{"solparse", "decode", minimalMessageHex()}},
		{"both modes", []string{"solparse", "decode", "--transaction", "--message", minimalMessageHex()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newDecodeApp().Run(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "exactly one of --transaction or --message")
		})
	}
}

func TestDecodeCommand_InvalidHex(t *testing.T) {
	err := newDecodeApp().Run([]string{"solparse", "decode", "--message", "zz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hex-encoded")
}

func TestDecodeCommand_DecodeFailure(t *testing.T) {
	err := newDecodeApp().Run([]string{"solparse", "decode", "--message", "01"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode failed")
}

func TestDecodeCommand_Message(t *testing.T) {
	err := newDecodeApp().Run([]string{"solparse", "decode", "--message", minimalMessageHex()})
	require.NoError(t, err)
}

func TestDecodeCommand_TransactionJSON(t *testing.T) {
	data := "01" + hex.EncodeToString(bytes.Repeat([]byte{0}, 64)) + minimalMessageHex()
	err := newDecodeApp().Run([]string{"solparse", "decode", "--transaction", "--json", data})
	require.NoError(t, err)
}

func TestDecodeCommand_StdinInput(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	old := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = old }()

	_, err = w.WriteString(minimalMessageHex() + "\n")
	require.NoError(t, err)
	w.Close()

	err = newDecodeApp().Run([]string{"solparse", "decode", "--message", "--json"})
	require.NoError(t, err)
}

func TestPrintJQ(t *testing.T) {
	raw, err := hex.DecodeString(minimalMessageHex())
	require.NoError(t, err)
	tx, err := solana.ParseMessage(raw)
	require.NoError(t, err)

	tests := []struct {
		name    string
		expr    string
		wantErr string
	}{
		{"select field", ".version", ""},
		{"array access", ".account_keys[0].signer", ""},
		{"pipeline", ".instructions | length", ""},
		{"unparseable filter", ".version |", "failed to parse jq filter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := printJQ(tx, tt.expr)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
