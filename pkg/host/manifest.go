package host

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/plugbus/pkg/protocol"
)

// PluginSpec is one entry of the plugin manifest.
type PluginSpec struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	// RefID identifies this plugin instance in request origin metadata.
	// Assigned when the manifest is loaded if absent.
	RefID string `yaml:"refId,omitempty"`
}

type Manifest struct {
	Plugins []PluginSpec `yaml:"plugins"`
}

// LoadManifest reads a plugins.yaml. Relative plugin paths are resolved
// against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, errors.Wrap(err, "parse manifest yaml")
	}

	dir := filepath.Dir(path)
	for i := range m.Plugins {
		p := &m.Plugins[i]
		if p.Name == "" {
			return nil, errors.Errorf("plugin %d: missing name", i)
		}
		if p.Path == "" {
			return nil, errors.Errorf("plugin %q: missing path", p.Name)
		}
		if !filepath.IsAbs(p.Path) {
			p.Path = filepath.Join(dir, p.Path)
		}
		if p.RefID == "" {
			p.RefID = protocol.NewID()
		}
	}
	return &m, nil
}
