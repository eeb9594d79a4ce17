package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	assert.ErrorIs(t, err, io.EOF)
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	var out bytes.Buffer
	got, err := GetMultiline(rdr("a\nb\n\n\n"), "Enter text", &out)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)
}

func TestGetMultiline_EOFAndCRLF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetMultiline(rdr("first\r\nlast"), "Enter text", &out)
	require.NoError(t, err)
	assert.Equal(t, "first\nlast", got)
}

func stubTerminal(t *testing.T, tty bool, pw []byte, err error) {
	t.Helper()
	oldRead, oldTTY := readPassword, isTerminal
	t.Cleanup(func() { readPassword, isTerminal = oldRead, oldTTY })
	isTerminal = func(int) bool { return tty }
	readPassword = func(int) ([]byte, error) { return pw, err }
}

func TestGetSecret_Terminal(t *testing.T) {
	stubTerminal(t, true, []byte(" secret \n"), nil)
	var out bytes.Buffer
	got, err := GetSecret(rdr("ignored\n"), "Key: ", &out)
	require.NoError(t, err)
	assert.Equal(t, "secret", got)
	assert.Equal(t, "Key: \n", out.String())
}

func TestGetSecret_TerminalError(t *testing.T) {
	stubTerminal(t, true, nil, errors.New("boom"))
	var out bytes.Buffer
	_, err := GetSecret(rdr(""), "Key: ", &out)
	assert.EqualError(t, err, "boom")
}

func TestGetSecret_Piped(t *testing.T) {
	stubTerminal(t, false, nil, errors.New("must not be called"))
	var out bytes.Buffer
	got, err := GetSecret(rdr("from-pipe\n"), "Key: ", &out)
	require.NoError(t, err)
	assert.Equal(t, "from-pipe", got)
}
