package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	varviper "github.com/noodlewarehouse-wq/var-viper"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSnapshotJSON(t *testing.T) {
	t.Parallel()
	path := writeTemp(t, "snap.json", `{"x": 1, "y": "two"}`)
	vars, err := loadSnapshot(path)
	require.NoError(t, err)
	require.Len(t, vars, 2)
	assert.Equal(t, "x", vars[0].Name)
	assert.Equal(t, "int", vars[0].TypeName)
	assert.Equal(t, "y", vars[1].Name)
}

func TestLoadSnapshotYAMLByExtension(t *testing.T) {
	t.Parallel()
	path := writeTemp(t, "snap.yaml", "greeting: hello\ncount: 3\n")
	vars, err := loadSnapshot(path)
	require.NoError(t, err)
	require.Len(t, vars, 2)
	assert.Equal(t, "greeting", vars[0].Name)
	assert.Equal(t, "string", vars[0].TypeName)
	assert.Equal(t, "count", vars[1].Name)
	assert.Equal(t, "int", vars[1].TypeName)
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	t.Parallel()
	_, err := loadSnapshot(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestDemoSnapshotRenders(t *testing.T) {
	t.Parallel()
	vars := demoSnapshot()
	require.Len(t, vars, 6)
	assert.Equal(t, "df", vars[0].Name)

	doc := varviper.Assemble(vars)
	require.Len(t, doc.Summary, 6)
	for _, nv := range vars {
		assert.NotContains(t, doc.Content[nv.Name], "error-box")
	}
	assert.Contains(t, doc.Content["df"], "heatmap-table")
	assert.Contains(t, doc.Content["config"], "tree-wrapper")
}
