package enforcer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Hara602/hidSentry/internal/model"
)

const devPath = "/devices/pci0000:00/0000:00:14.0/usb1/1-1"

func fakeSysfs(t *testing.T) (root, dev string) {
	t.Helper()
	root = t.TempDir()
	dev = filepath.Join(root, devPath)
	if err := os.MkdirAll(filepath.Join(dev, "1-1:1.0"), 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range map[string]string{"idVendor": "046d", "remove": "", "authorized": "1"} {
		if err := os.WriteFile(filepath.Join(dev, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root, dev
}

func TestBlockRemove(t *testing.T) {
	root, dev := fakeSysfs(t)

	if err := NewSysfsBlocker(root, "").Block(devPath + "/1-1:1.0"); err != nil {
		t.Fatalf("Block: %v", err)
	}
	b, _ := os.ReadFile(filepath.Join(dev, "remove"))
	if string(b) != "1" {
		t.Fatalf("remove = %q, want 1", b)
	}
}

func TestBlockDeauthorize(t *testing.T) {
	root, dev := fakeSysfs(t)

	if err := NewSysfsBlocker(root, ModeDeauthorize).Block(devPath); err != nil {
		t.Fatalf("Block: %v", err)
	}
	b, _ := os.ReadFile(filepath.Join(dev, "authorized"))
	if string(b) != "0" {
		t.Fatalf("authorized = %q, want 0", b)
	}
}

func TestBlockFailures(t *testing.T) {
	root, _ := fakeSysfs(t)
	blocker := NewSysfsBlocker(root, ModeRemove)

	for _, p := range []string{"", "/devices/virtual/input/input9"} {
		if err := blocker.Block(p); !errors.Is(err, model.ErrBlockActionFailure) {
			t.Errorf("Block(%q): expected ErrBlockActionFailure, got %v", p, err)
		}
	}
}
