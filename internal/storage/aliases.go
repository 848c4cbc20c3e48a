package storage

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/garyellow/casmate/internal/catalog"
	domerrors "github.com/garyellow/casmate/internal/errors"
)

//go:embed aliases.yaml
var defaultAliases []byte

// DefaultAliases returns the alias tables compiled into the binary.
func DefaultAliases() (catalog.Aliases, error) {
	return ParseAliases(defaultAliases)
}

// ParseAliases decodes an alias YAML document.
func ParseAliases(b []byte) (catalog.Aliases, error) {
	var a catalog.Aliases
	if err := yaml.Unmarshal(b, &a); err != nil {
		return catalog.Aliases{}, fmt.Errorf("parse aliases: %w", err)
	}
	return a, nil
}

// LoadAliases reads an alias YAML file. An empty path yields the embedded
// defaults.
func LoadAliases(path string) (catalog.Aliases, error) {
	if path == "" {
		return DefaultAliases()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return catalog.Aliases{}, domerrors.NewLoadError(path, 0, err)
	}
	a, err := ParseAliases(b)
	if err != nil {
		return catalog.Aliases{}, domerrors.NewLoadError(path, 0, err)
	}
	return a, nil
}
