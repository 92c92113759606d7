package filestore

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/talkincode/zcast/internal/domain"
	"go.uber.org/zap"
)

// CredentialFile holds the single persisted login credential.
type CredentialFile struct {
	path string
	mu   sync.Mutex
}

func NewCredentialFile(path string) *CredentialFile {
	return &CredentialFile{path: path}
}

// Load returns the stored credential or ErrNoCredential.
func (f *CredentialFile) Load() (domain.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Credential{}, domain.ErrNoCredential
		}
		return domain.Credential{}, errors.Wrap(err, "filestore: read credential")
	}
	var cred domain.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return domain.Credential{}, errors.Wrap(err, "filestore: parse credential")
	}
	return cred, nil
}

func (f *CredentialFile) Save(cred domain.Credential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return errors.Wrap(err, "filestore: marshal credential")
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return errors.Wrap(err, "filestore: write credential")
	}
	return nil
}

// Clear removes the credential file; a missing file is not an error.
func (f *CredentialFile) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := removeFile(f.path); err != nil {
		zap.L().Warn("filestore: clear credential failed", zap.Error(err))
	}
}
