package document

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

//go:embed resources/*.json
var resources embed.FS

// LoadResource decodes a built-in pose by name (without extension).
func LoadResource(name string) (Document, error) {
	data, err := resources.ReadFile(path.Join("resources", name+".json"))
	if err != nil {
		return nil, fmt.Errorf("load resource pose %q: %w", name, err)
	}
	return Decode(data)
}

// Resources lists the built-in pose names.
func Resources() []string {
	entries, err := resources.ReadDir("resources")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}
