// Package filestore persists console state in flat JSON files under the
// workdir. All writes are whole-file rewrites; last writer wins.
package filestore

import (
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// readList loads a JSON array file into dst. A missing or unreadable file is
// treated as an empty collection; the caller never sees a read error.
func readList(path string, dst interface{}) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("filestore: read failed, treating as empty", zap.String("file", path), zap.Error(err))
		}
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		zap.L().Warn("filestore: malformed file, treating as empty", zap.String("file", path), zap.Error(err))
	}
}

func writeList(path string, src interface{}) error {
	data, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "filestore: marshal %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "filestore: write %s", path)
	}
	return nil
}

// removeFile deletes path, ignoring a missing file.
func removeFile(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "filestore: remove %s", path)
	}
	return nil
}
