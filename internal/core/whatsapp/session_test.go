package whatsapp

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureSessionFileMissing(t *testing.T) {
	if EnsureSessionFile(filepath.Join(t.TempDir(), "nope.json")) {
		t.Fatal("missing file must not count as usable")
	}
}

func TestEnsureSessionFileDeletesTinyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wa-session.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if EnsureSessionFile(path) {
		t.Fatal("file below the corruption threshold must be rejected")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("corrupt session file must be deleted so a fresh QR login runs")
	}
}

func TestEnsureSessionFileDeletesInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wa-session.json")
	if err := os.WriteFile(path, []byte("this is not a storage state"), 0o644); err != nil {
		t.Fatal(err)
	}

	if EnsureSessionFile(path) {
		t.Fatal("unparseable session file must be rejected")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("unparseable session file must be deleted")
	}
}

func TestEnsureSessionFileKeepsValidState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wa-session.json")
	state := []byte(`{"cookies":[{"name":"wa","value":"token"}],"origins":[]}`)
	if err := os.WriteFile(path, state, 0o644); err != nil {
		t.Fatal(err)
	}

	if !EnsureSessionFile(path) {
		t.Fatal("valid session file must be kept")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal("valid session file must not be deleted")
	}
}
