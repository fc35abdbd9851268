package vault

import (
	"errors"
	"os"
)

// FileInfo describes one file managed by the vault.
type FileInfo struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
	Size   int64  `json:"size"`
}

// Info is a snapshot of the vault's files.
type Info struct {
	Data        FileInfo `json:"data_file"`
	KeyLoaded   bool     `json:"key_loaded"`
	Fingerprint string   `json:"fingerprint,omitempty"`
	Backups     int      `json:"backups"`
}

// Info reports the data file state and whether a key is loaded. It never
// reads the data file contents.
func (v *Vault) Info() (Info, error) {
	data, err := StatFile(v.dataPath)
	if err != nil {
		return Info{}, err
	}

	backups, err := v.ListBackups()
	if err != nil {
		return Info{}, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	info := Info{Data: data, KeyLoaded: v.opened, Backups: len(backups)}
	if v.opened {
		info.Fingerprint = v.key.String()
	}
	return info, nil
}

// StatFile returns the existence and size of path.
func StatFile(path string) (FileInfo, error) {
	st, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return FileInfo{Path: path}, nil
	}
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{Path: path, Exists: true, Size: st.Size()}, nil
}
