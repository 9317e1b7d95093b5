package persistence

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runServer(t *testing.T, input string) []string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, RunServer(strings.NewReader(input), &out))
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func TestServerCommands(t *testing.T) {
	got := runServer(t, strings.Join([]string{
		"PERSIST 277777788888899",
		"product 2677",
		"CHECK 2677",
		"CHECK 2687",
		"NEXT 2699",
		"NEXT 9999",
		"SMALLEST 4",
		"",
		"QUIT",
		"PERSIST 77",
	}, "\n"))

	assert.Equal(t, []string{
		"OK 11",
		"OK 588",
		"OK 1",
		"OK 0",
		"OK 2777 0",
		"OK 26777 1",
		"OK 2677",
	}, got)
}

func TestServerErrors(t *testing.T) {
	got := runServer(t, strings.Join([]string{
		"PERSIST",
		"PERSIST 12x",
		"NEXT 2345",
		"SMALLEST 0",
		"SMALLEST abc",
		"SMALLEST 99999999999999999",
		"SMALLEST " + strconv.Itoa(MaxSmallestDigits+1),
		"SMALLEST 2",
		"FROB 1",
		"FROB",
	}, "\n"))

	assert.Equal(t, []string{
		"ERR BADARGS",
		"ERR BADARGS",
		"ERR NOTCANDIDATE",
		"ERR BADARGS",
		"ERR BADARGS",
		"ERR BADARGS",
		"ERR BADARGS",
		"OK 26",
		"ERR BADCMD",
		"ERR BADCMD",
	}, got)
}

func TestServerSmallestAtLimit(t *testing.T) {
	got := runServer(t, "SMALLEST "+strconv.Itoa(MaxSmallestDigits))
	require.Len(t, got, 1)
	n := strings.TrimPrefix(got[0], "OK ")
	assert.Len(t, n, MaxSmallestDigits)
	assert.True(t, strings.HasPrefix(n, "267"))
}

func TestServerLastLineWithoutNewline(t *testing.T) {
	assert.Equal(t, []string{"OK 4"}, runServer(t, "PERSIST 77"))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestServerReturnsReadErrors(t *testing.T) {
	err := RunServer(failingReader{}, &bytes.Buffer{})
	assert.EqualError(t, err, "broken pipe")
}
