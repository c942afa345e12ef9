// Index file read/write helpers with atomic persistence.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/forgeyard/shelf/pkg/types"
)

// FileName is the index document file name inside the index directory.
const FileName = "index.json"

// Load reads an index document from path. A missing file is not an error;
// it returns a fresh empty document so first runs start from nothing.
func Load(path string) (*types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.NewDocument(), nil
		}
		return nil, fmt.Errorf("read index: %w", err)
	}

	var doc types.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse index %s: %w", path, err)
	}
	return &doc, nil
}

// Save atomically writes the document to path using the temp-file, fsync,
// rename pattern. The document is indented so index diffs stay reviewable.
func Save(path string, doc *types.Document) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".index-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing index: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
