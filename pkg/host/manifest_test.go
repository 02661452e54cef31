package host

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plugins.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`plugins:
  - name: copy-as-curl
    path: plugins/copy-as-curl.js
    refId: ref-1
  - name: importer
    path: /opt/plugins/importer.js
`), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Plugins, 2)

	require.Equal(t, "copy-as-curl", m.Plugins[0].Name)
	require.Equal(t, filepath.Join(dir, "plugins", "copy-as-curl.js"), m.Plugins[0].Path)
	require.Equal(t, "ref-1", m.Plugins[0].RefID)

	require.Equal(t, "/opt/plugins/importer.js", m.Plugins[1].Path)
	require.NotEmpty(t, m.Plugins[1].RefID, "absent refId gets assigned")
}

func TestLoadManifest_Invalid(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "missing-name.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plugins:\n  - path: x.js\n"), 0o644))
	_, err := LoadManifest(path)
	require.Error(t, err)

	path = filepath.Join(dir, "missing-path.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plugins:\n  - name: x\n"), 0o644))
	_, err = LoadManifest(path)
	require.Error(t, err)

	_, err = LoadManifest(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
}
