package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shortsmith/internal/fileutil"
	"shortsmith/internal/services"
)

// ResolveBase finds the unfiltered artifact a filter should start from.
//
// An explicit base recorded alongside the artifact wins when it still exists.
// Otherwise the filter marker is stripped from current and the resulting name
// is searched in current's directory and then workingDir. A current path
// without a marker is its own base.
func ResolveBase(current, explicitBase, workingDir string) (string, error) {
	if explicitBase != "" && fileutil.Exists(explicitBase) {
		return explicitBase, nil
	}

	name := Parse(current)
	if !name.HasFilter() {
		if !fileutil.Exists(current) {
			return "", services.Wrap(services.ErrNotFound, "filter", "resolve base",
				fmt.Sprintf("input %s does not exist", current), os.ErrNotExist)
		}
		return current, nil
	}

	baseName := Name{Stem: name.Stem, Ext: name.Ext}.String()
	candidates := []string{filepath.Join(filepath.Dir(current), baseName)}
	if strings.TrimSpace(workingDir) != "" {
		candidates = append(candidates, filepath.Join(workingDir, baseName))
	}
	for _, candidate := range candidates {
		if fileutil.Exists(candidate) {
			return candidate, nil
		}
	}
	return "", services.Wrap(services.ErrNotFound, "filter", "resolve base",
		fmt.Sprintf("no unfiltered base %s for %s", baseName, filepath.Base(current)), os.ErrNotExist)
}

// FilteredVariants lists files in dir whose names start with the filter
// prefix of stem.
func FilteredVariants(dir, stem string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	prefix := FilterPrefix(stem)
	var matches []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		matches = append(matches, filepath.Join(dir, entry.Name()))
	}
	return matches, nil
}
