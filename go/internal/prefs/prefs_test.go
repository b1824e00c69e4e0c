package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "nope", "prefs.yaml"))
	require.NoError(t, err, "a missing prefs file is not an error")
	assert.Equal(t, Prefs{}, p)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partyquiz", "prefs.yaml")

	require.NoError(t, Save(path, Prefs{Name: "alice", Room: "QUIZ"}))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Name)
	assert.Equal(t, "QUIZ", p.Room)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("\tnot yaml"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
