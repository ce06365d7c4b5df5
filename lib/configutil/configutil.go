package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// LocalPath returns the local override path for a config file,
// <dir>/<name>.local.<ext>.
func LocalPath(name string) string {
	prefixname, ext := splitExt(filepath.Base(name))
	return filepath.Join(
		filepath.Dir(name),
		fmt.Sprintf("%s.local.%s", prefixname, ext),
	)
}

// reads a configuration file, `name` should come with a file extension,
// it will automatically be lopped off to produce the other extensions.
// this function will merge the following onto `base`, where higher number is more prioritized.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
// keys left unset (zero values) in the files keep the value from `base`.
// if neither file exists, `base` is returned together with os.ErrNotExist.
func ReadConfig[T any](name string, base T) (T, error) {
	out := base
	allNotFound := true

	for _, path := range []string{name, LocalPath(name)} {
		file, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return base, err
		}
		if len(file) == 0 {
			continue
		}

		var override T
		err = json5.Unmarshal(file, &override)
		if err != nil {
			return base, fmt.Errorf("%s: %w", path, err)
		}
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return base, err
		}
		slog.Debug("merged config file", "path", path)
		allNotFound = false
	}

	if allNotFound {
		return out, os.ErrNotExist
	}
	return out, nil
}
