package install

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Marker heads the alias block; its presence means the rc file is already set up.
const Marker = "# srt-translate"

// RCFiles are the shell rc files considered, relative to the home directory.
var RCFiles = []string{".bashrc", ".zshrc"}

// Status is the outcome for one rc file.
type Status string

const (
	StatusInstalled Status = "installed"
	StatusPresent   Status = "already present"
	StatusMissing   Status = "not found"
)

// Result reports what happened to one rc file.
type Result struct {
	Path   string
	Status Status
}

// Alias returns the alias block for executable.
func Alias(executable string) string {
	return fmt.Sprintf("\n%s\nalias srt-translate='%s'\n", Marker, strings.ReplaceAll(executable, "'", `'\''`))
}

// Install appends the alias block to every existing rc file in home that does
// not carry it yet. Missing rc files are reported, never created.
func Install(home, executable string) ([]Result, error) {
	if strings.TrimSpace(home) == "" {
		return nil, errors.New("install: home directory is empty")
	}
	if strings.TrimSpace(executable) == "" {
		return nil, errors.New("install: executable path is empty")
	}

	results := make([]Result, 0, len(RCFiles))
	for _, name := range RCFiles {
		path := filepath.Join(home, name)
		status, err := installOne(path, executable)
		if err != nil {
			return results, err
		}
		results = append(results, Result{Path: path, Status: status})
	}
	return results, nil
}

func installOne(path, executable string) (Status, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return StatusMissing, nil
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if strings.Contains(string(data), Marker) {
		return StatusPresent, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := f.WriteString(Alias(executable)); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("append alias to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return StatusInstalled, nil
}
