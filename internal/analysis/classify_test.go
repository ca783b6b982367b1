package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Hara602/hidSentry/internal/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name       string
		driver     string
		interfaces string
		want       model.DeviceClass
	}{
		{"usbhid driver", "usbhid", "", model.ClassHID},
		{"driver case-insensitive", "USBHID", "", model.ClassHID},
		{"boot keyboard interface", "", "0301", model.ClassHID},
		{"udev interface list with hid class", "", ":030101:030102:", model.ClassHID},
		{"bare 03 class", "", "03", model.ClassHID},
		{"usb-storage driver", "usb-storage", "", model.ClassStorage},
		{"mass storage class prefix", "", "080650", model.ClassStorage},
		{"udev list starting with storage", "", ":080650:", model.ClassStorage},
		{"hid wins over storage", "usb-storage", ":080650:030101:", model.ClassHID},
		{"cdc acm", "cdc_acm", ":020201:0a0000:", model.ClassOther},
		{"nothing known", "", "", model.ClassOther},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := model.DeviceIdentity{Action: "add", Driver: tc.driver, Interfaces: tc.interfaces}
			got := Classify(id)
			if got != tc.want {
				t.Fatalf("Classify(driver=%q, interfaces=%q) = %s, want %s", tc.driver, tc.interfaces, got, tc.want)
			}
			if again := Classify(id); again != got {
				t.Fatalf("Classify is not stable: %s then %s", got, again)
			}
		})
	}
}

func TestIsComposite(t *testing.T) {
	cases := map[string]bool{
		":030101:080650:": true,
		":080650:030001:": true,
		":030101:030102:": false,
		":080650:":        false,
		"":                false,
	}
	for in, want := range cases {
		if got := IsComposite(in); got != want {
			t.Errorf("IsComposite(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSysfsInterfaceClasses(t *testing.T) {
	root := t.TempDir()
	write := func(iface, class string) {
		dir := filepath.Join(root, iface)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "bInterfaceClass"), []byte(class+"\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("1-1:1.0", "03")
	write("1-1:1.1", "08")
	// 接口目录存在但类别为空，跳过
	write("1-1:1.2", "  ")
	if err := os.MkdirAll(filepath.Join(root, "power"), 0755); err != nil {
		t.Fatal(err)
	}

	classes := SysfsInterfaceClasses(root)
	got := InterfacesString(classes)
	if got != ":03:08:" {
		t.Fatalf("InterfacesString = %q, want %q", got, ":03:08:")
	}
	if !IsComposite(got) {
		t.Fatal("expected composite device")
	}
	if SysfsInterfaceClasses(filepath.Join(root, "missing")) != nil {
		t.Fatal("expected nil for unreadable directory")
	}
}
