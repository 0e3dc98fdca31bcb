package util

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLIOrganize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "2018 Sermon.docx"), []byte("x"))
	writeFile(t, filepath.Join(root, "todo.txt"), []byte("x"))

	out, err := runCLI(t, "organize", "--no-progress", root)
	require.NoError(t, err)
	assert.Contains(t, out, "moved")
	assert.Contains(t, out, "organize started")
	assert.Contains(t, out, "no year in filename, leaving in place")
	assert.NotContains(t, out, "classified")
	assert.FileExists(t, filepath.Join(root, "2018", "설교", "2018 Sermon.docx"))
	assert.FileExists(t, filepath.Join(root, "todo.txt"))
	assert.FileExists(t, filepath.Join(root, LockFileName))
}

func TestCLIOrganizeVerboseLogsDebug(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "2018 Sermon.docx"), []byte("x"))

	out, err := runCLI(t, "organize", "--no-progress", "--verbose", root)
	require.NoError(t, err)
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, "classified")
}

func TestCLIOrganizeRootFromConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "2018 camper list.pdf"), []byte("x"))
	cfg := writeConfig(t, "root = \""+filepath.ToSlash(root)+"\"\n")

	_, err := runCLI(t, "organize", "--no-progress", "--config", cfg)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "2018", "Certificate", "2018 camper list.pdf"))
}

func TestCLIOrganizeErrors(t *testing.T) {
	_, err := runCLI(t, "organize", "--no-progress")
	assert.ErrorContains(t, err, "no root directory")

	_, err = runCLI(t, "organize", "--no-progress", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorContains(t, err, "does not exist")

	file := writeFile(t, filepath.Join(t.TempDir(), "f.txt"), nil)
	_, err = runCLI(t, "organize", "--no-progress", file)
	assert.ErrorIs(t, err, ErrNotDirectory)

	root := t.TempDir()
	lock, err := AcquireRunLock(root)
	require.NoError(t, err)
	defer lock.Release()
	_, err = runCLI(t, "organize", "--no-progress", root)
	assert.ErrorIs(t, err, ErrRunInProgress)
}

func TestCLICategories(t *testing.T) {
	out, err := runCLI(t, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Donation_Receipt")
	assert.Contains(t, out, "설교")

	cfg := writeConfig(t, "[[category]]\nname = \"Taxes\"\nkeywords = [\"w2\", \"1099\"]\n")
	out, err = runCLI(t, "categories", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Taxes")
	assert.NotContains(t, out, "Donation_Receipt")
}

func TestCLIVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "docsort "+Version)
}
