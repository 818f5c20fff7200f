package filters

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/credmatch/credmatch/pkg/engine"
	"github.com/credmatch/credmatch/pkg/filterdef"
)

func isYAML(p string) bool {
	l := strings.ToLower(p)
	return strings.HasSuffix(l, ".yml") || strings.HasSuffix(l, ".yaml")
}

// LoadDirRecursive walks root and loads every YAML filter definition. A file
// that fails to load does not abort the walk: the loadable filters are
// returned alongside an accumulated error describing every failure. A nil
// error means everything loaded.
func LoadDirRecursive(root string) ([]engine.Filter, error) {
	var out []engine.Filter
	var loadErrs *multierror.Error

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(p) {
			return nil
		}
		b, err := os.ReadFile(p)
		if err != nil {
			loadErrs = multierror.Append(loadErrs, fmt.Errorf("%s: %w", p, err))
			return nil
		}
		f, err := filterdef.LoadFilterYAML(b)
		if err != nil {
			loadErrs = multierror.Append(loadErrs, fmt.Errorf("%s: %w", p, err))
			return nil
		}
		out = append(out, f)
		return nil
	})
	if err != nil {
		return out, fmt.Errorf("walk %s: %w", root, err)
	}
	return out, loadErrs.ErrorOrNil()
}
