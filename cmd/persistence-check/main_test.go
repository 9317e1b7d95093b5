package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"persistence"
)

func TestCheckDescribesCandidates(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"2677", "2345", "--chain"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t,
		"2677 steps=3 admissible=true prefix=26 next=2678\n"+
			"  -> 588\n"+
			"  -> 320\n"+
			"  -> 0\n"+
			"2345 steps=2 admissible=true\n"+
			"  -> 120\n"+
			"  -> 0\n",
		out.String())
}

func TestCheckReportsPrefixes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"7", "7 steps=0 admissible=true prefix=none next=8\n"},
		{"3577", "3577 steps=3 admissible=true prefix=35 next=3578\n"},
		{"55579", "55579 steps=3 admissible=true prefix=5x3 next=55588\n"},
		{"2345", "2345 steps=2 admissible=true\n"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		cmd := newRootCmd(&out)
		cmd.SetArgs([]string{tt.in})
		require.NoError(t, cmd.Execute(), tt.in)
		assert.Equal(t, tt.want, out.String(), tt.in)
	}
}

func TestCheckRejectsMalformedNumbers(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"12a"})
	assert.ErrorIs(t, cmd.Execute(), persistence.ErrSyntax)

	cmd = newRootCmd(&out)
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}
