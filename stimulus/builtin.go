package stimulus

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

//go:embed scripts/*.yaml
var builtinScripts embed.FS

// BuiltinNames lists the scripts shipped with the binary.
func BuiltinNames() []string {
	entries, err := builtinScripts.ReadDir("scripts")
	if err != nil {
		panic(err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}

	sort.Strings(names)

	return names
}

// Builtin loads a shipped script by name.
func Builtin(name string) (*Script, error) {
	data, err := builtinScripts.ReadFile(path.Join("scripts", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("stimulus: no builtin script %q (have %s)",
			name, strings.Join(BuiltinNames(), ", "))
	}

	return Load(bytes.NewReader(data))
}
