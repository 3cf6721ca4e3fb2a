package timetable

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed templates/*.json
var templates embed.FS

// Builtin returns the embedded template called name, e.g. "2ndyear".
func Builtin(name string) (Weekly, error) {
	f, err := templates.Open(path.Join("templates", name+".json"))
	if err != nil {
		return nil, fmt.Errorf("unknown template %q (available: %s)", name, strings.Join(BuiltinNames(), ", "))
	}
	defer f.Close()

	return Parse(f)
}

// BuiltinNames lists the embedded templates in sorted order.
func BuiltinNames() []string {
	entries, err := fs.ReadDir(templates, "templates")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}
