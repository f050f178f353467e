package rename

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"srttranslate/internal/services"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

var folder = cases.Fold()

// Result describes one rename.
type Result struct {
	From    string
	To      string
	Changed bool
}

// CleanName returns name NFC-normalized with unsafe characters replaced and
// all whitespace removed.
func CleanName(name string) string {
	name = norm.NFC.String(name)
	name = fileNameReplacer.Replace(name)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
}

// File renames path to its cleaned name in the same directory. An existing
// file at the target is never overwritten.
func File(path string) (Result, error) {
	dir, base := filepath.Split(path)
	cleaned := CleanName(base)
	result := Result{From: path, To: path}
	if cleaned == "" {
		return result, services.Wrap(services.ErrInput, "rename", "clean name", fmt.Sprintf("%q has no usable characters", base), nil)
	}
	if cleaned == base {
		return result, nil
	}

	target := filepath.Join(dir, cleaned)
	if _, err := os.Lstat(target); err == nil {
		return result, services.Wrap(services.ErrInput, "rename", "check target", fmt.Sprintf("%s already exists", target), nil)
	} else if !errors.Is(err, os.ErrNotExist) {
		return result, services.Wrap(services.ErrInput, "rename", "check target", target, err)
	}
	if err := os.Rename(path, target); err != nil {
		return result, services.Wrap(services.ErrInput, "rename", "rename file", path, err)
	}
	result.To = target
	result.Changed = true
	return result, nil
}

// Dir renames every regular file directly inside dir. It stops at the first
// failure and returns the results gathered so far.
func Dir(dir string) ([]Result, error) {
	names, err := listFiles(dir)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(names))
	for _, name := range names {
		res, err := File(filepath.Join(dir, name))
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// ListByExt returns the regular files in dir whose extension matches ext,
// compared case-insensitively and with or without the leading dot.
func ListByExt(dir, ext string) ([]string, error) {
	want := folder.String("." + strings.TrimPrefix(strings.TrimSpace(ext), "."))
	names, err := listFiles(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, name := range names {
		if folder.String(filepath.Ext(name)) == want {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "rename", "read directory", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
