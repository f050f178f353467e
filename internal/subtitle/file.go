package subtitle

import (
	"fmt"
	"os"

	"srttranslate/internal/fileutil"
	"srttranslate/internal/services"
)

// ReadFile loads and parses a subtitle file.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "read", "open subtitle", path, err)
	}
	return Parse(string(data)), nil
}

// WriteFile serializes doc and replaces path with the result.
func WriteFile(path string, doc Document) error {
	if err := fileutil.ReplaceFile(path, []byte(Serialize(doc)), 0o644); err != nil {
		return fmt.Errorf("write subtitle %s: %w", path, err)
	}
	return nil
}
