package sqlstore

import (
	"path/filepath"
	"testing"

	"github.com/cheezecat/jgnash"
	"github.com/cheezecat/jgnash/storage/storagetest"
)

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T, path string) jgnash.DataStore {
		s, err := Open(path + ".db")
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		return s
	})
}

func TestGetFileVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	v, err := GetFileVersion(path, "")
	if err != nil {
		t.Fatalf("GetFileVersion: %v", err)
	}
	if v != jgnash.CurrentFileVersion {
		t.Fatalf("GetFileVersion = %v, want %v", v, jgnash.CurrentFileVersion)
	}

	if _, err := GetFileVersion(filepath.Join(t.TempDir(), "absent.db"), ""); err == nil {
		t.Fatal("GetFileVersion on missing file, want error")
	}
}
