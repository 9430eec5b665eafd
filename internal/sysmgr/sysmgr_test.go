package sysmgr

import (
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
)

type call struct {
	name string
	args []string
}

// fakeRunner records invocations and replays canned results.
func fakeRunner(calls *[]call, output string, err error) CommandRunner {
	return func(name string, args ...string) ([]byte, error) {
		*calls = append(*calls, call{name: name, args: args})
		return []byte(output), err
	}
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestServiceRunning(t *testing.T) {
	tests := []struct {
		name   string
		runErr error
		want   bool
	}{
		{"active", nil, true},
		{"inactive", fmt.Errorf("exit status 3"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []call
			m := NewWithRunner(testLogger(), fakeRunner(&calls, "", tt.runErr))
			if got := m.ServiceRunning("pcscd"); got != tt.want {
				t.Errorf("ServiceRunning() = %v, want %v", got, tt.want)
			}
			if len(calls) != 1 {
				t.Fatalf("expected 1 invocation, got %d", len(calls))
			}
			wantArgs := []string{"is-active", "--quiet", "pcscd"}
			if calls[0].name != "systemctl" || strings.Join(calls[0].args, " ") != strings.Join(wantArgs, " ") {
				t.Errorf("invoked %s %v, want systemctl %v", calls[0].name, calls[0].args, wantArgs)
			}
		})
	}
}

func TestStartService(t *testing.T) {
	var calls []call
	m := NewWithRunner(testLogger(), fakeRunner(&calls, "", nil))
	if err := m.StartService("pcscd"); err != nil {
		t.Fatalf("StartService() error = %v", err)
	}
	if calls[0].name != "systemctl" || calls[0].args[0] != "start" {
		t.Errorf("invoked %s %v, want systemctl start", calls[0].name, calls[0].args)
	}

	m = NewWithRunner(testLogger(), fakeRunner(&calls, "permission denied", fmt.Errorf("exit status 1")))
	err := m.StartService("pcscd")
	if err == nil {
		t.Fatal("StartService() should propagate failure")
	}
	if !strings.Contains(err.Error(), "permission denied") {
		t.Errorf("error should carry tool output, got %v", err)
	}
}

func TestInstallPackagesBatch(t *testing.T) {
	var calls []call
	m := NewWithRunner(testLogger(), fakeRunner(&calls, "", nil))

	packages := []string{"opensc", "pcscd", "libccid"}
	if err := m.InstallPackages([]string{"apt-get", "install", "-y"}, packages); err != nil {
		t.Fatalf("InstallPackages() error = %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("install must be a single batch invocation, got %d", len(calls))
	}
	got := strings.Join(calls[0].args, " ")
	want := "install -y opensc pcscd libccid"
	if calls[0].name != "apt-get" || got != want {
		t.Errorf("invoked %s %q, want apt-get %q", calls[0].name, got, want)
	}
}

func TestInstallPackagesEmptyTemplate(t *testing.T) {
	m := NewWithRunner(testLogger(), fakeRunner(&[]call{}, "", nil))
	if err := m.InstallPackages(nil, []string{"opensc"}); err == nil {
		t.Error("empty install template should be rejected")
	}
}

func TestInstalledPackages(t *testing.T) {
	var calls []call
	listing := "opensc\npcscd\nlibccid\n"
	m := NewWithRunner(testLogger(), fakeRunner(&calls, listing, nil))

	out, err := m.InstalledPackages([]string{"dpkg-query", "-W", "-f", "${Package}\n"})
	if err != nil {
		t.Fatalf("InstalledPackages() error = %v", err)
	}
	if out != listing {
		t.Errorf("listing = %q, want %q", out, listing)
	}

	if _, err := m.InstalledPackages(nil); err == nil {
		t.Error("empty list template should be rejected")
	}
}

func TestEngineRegistered(t *testing.T) {
	var calls []call
	m := NewWithRunner(testLogger(), fakeRunner(&calls, "(pkcs11) pkcs11 engine", nil))
	if err := m.EngineRegistered("pkcs11"); err != nil {
		t.Fatalf("EngineRegistered() error = %v", err)
	}
	if calls[0].name != "openssl" || strings.Join(calls[0].args, " ") != "engine pkcs11" {
		t.Errorf("invoked %s %v, want openssl engine pkcs11", calls[0].name, calls[0].args)
	}

	m = NewWithRunner(testLogger(), fakeRunner(&calls, "invalid engine", fmt.Errorf("exit status 1")))
	if err := m.EngineRegistered("pkcs11"); err == nil {
		t.Error("EngineRegistered() should fail when openssl rejects the engine")
	}
}

func TestLibraryReadable(t *testing.T) {
	if LibraryReadable("/nonexistent/libcryptoCertum3PKCS.so") {
		t.Error("missing library reported readable")
	}
}
