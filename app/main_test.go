package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CommandErrorLoggedOnce(t *testing.T) {
	loc := filepath.Join(t.TempDir(), "ratings.db")
	out := &bytes.Buffer{}

	code := run([]string{"override", "--loc", loc, "--name", "!!!", "--delta", "2"}, out)
	assert.Equal(t, 1, code)
	assert.Equal(t, 1, strings.Count(out.String(), "no letters or digits in name"), out.String())
	assert.Contains(t, out.String(), "[ERROR] failed to execute command")
}

func TestRun_Success(t *testing.T) {
	loc := filepath.Join(t.TempDir(), "ratings.db")
	out := &bytes.Buffer{}

	code := run([]string{"override", "--loc", loc, "--name", "Simp", "--delta", "2"}, out)
	assert.Equal(t, 0, code, out.String())
	assert.NotContains(t, out.String(), "[ERROR]")

	_, err := os.Stat(loc)
	require.NoError(t, err)
}

func TestRun_ParserErrors(t *testing.T) {
	assert.Equal(t, 1, run([]string{"unknown"}, &bytes.Buffer{}))
	assert.Equal(t, 0, run([]string{"--help"}, &bytes.Buffer{}))
}
