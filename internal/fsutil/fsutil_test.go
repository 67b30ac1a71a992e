package fsutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPathValidator(t *testing.T) {
	v := DefaultPathValidator()

	tests := []struct {
		path    string
		wantErr bool
	}{
		{"/tmp/test.txt", false},
		{"../../../etc/passwd", true},
		{"/tmp/../../../etc/passwd", true},
		{"/tmp/test\x00.txt", true},
		{"", true},
	}

	for _, tt := range tests {
		_, err := v.ValidatePath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestPathValidatorWithRoots(t *testing.T) {
	tempDir := t.TempDir()

	v := &PathValidator{
		AllowedRoots:  []string{tempDir},
		MaxPathLength: 4096,
	}

	validPath := filepath.Join(tempDir, "layout.json")
	if _, err := v.ValidatePath(validPath); err != nil {
		t.Errorf("ValidatePath(%q) unexpected error: %v", validPath, err)
	}

	if _, err := v.ValidatePath("/etc/passwd"); err != ErrPathOutsideRoot {
		t.Errorf("ValidatePath(/etc/passwd) error = %v, want %v", err, ErrPathOutsideRoot)
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"workspace.json", false},
		{".hidden", false},
		{"", true},
		{"nested/file.json", true},
		{"test\x00.txt", true},
		{"CON", true},
		{"test.", true},
		{" test", true},
		{"test ", true},
	}

	for _, tt := range tests {
		err := ValidateFilename(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestInputValidator(t *testing.T) {
	v := DefaultInputValidator()

	tests := []struct {
		input   string
		wantErr bool
	}{
		{"Mozilla Firefox", false},
		{"multi\nline title", false},
		{"bad\x00title", true},
		{string([]byte{0x01}), true},
		{"", false},
	}

	for _, tt := range tests {
		err := v.Validate(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestWriteSecureFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "state.json")
	data := []byte(`{"monitors":[]}`)

	if err := WriteSecureFile(path, data, PermPublicFile); err != nil {
		t.Fatalf("WriteSecureFile failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("file contents mismatch: got %q, want %q", got, data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != PermPublicFile {
		t.Errorf("file permissions = %04o, want %04o", info.Mode().Perm(), PermPublicFile)
	}
}

func TestAtomicWrite(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "known-windows.json")

	if err := WriteSecureFile(path, []byte("initial"), PermPublicFile); err != nil {
		t.Fatalf("WriteSecureFile failed: %v", err)
	}
	if err := WriteSecureFile(path, []byte("updated"), PermPublicFile); err != nil {
		t.Fatalf("WriteSecureFile update failed: %v", err)
	}

	matches, _ := filepath.Glob(path + ".tmp.*")
	if len(matches) > 0 {
		t.Errorf("temp files left behind: %v", matches)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "updated" {
		t.Errorf("content = %q, want %q", got, "updated")
	}
}

func TestEnsureSecureDir(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "tilewm", "nested")

	if err := EnsureSecureDir(path); err != nil {
		t.Fatalf("EnsureSecureDir failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected directory, got file")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(10, 5)

	for i := 0; i < 5; i++ {
		if !rl.Allow() {
			t.Errorf("burst operation %d was rate limited", i)
		}
	}
	if rl.Allow() {
		t.Error("expected rate limiting after burst")
	}

	time.Sleep(200 * time.Millisecond)
	if !rl.Allow() {
		t.Error("expected operation after refill")
	}
}

func TestRateLimiterBlock(t *testing.T) {
	rl := NewRateLimiter(10, 5)

	rl.Block(100 * time.Millisecond)
	if rl.Allow() {
		t.Error("expected blocking")
	}

	time.Sleep(150 * time.Millisecond)
	if !rl.Allow() {
		t.Error("expected operation after block expired")
	}
}

func TestConnectionLimiter(t *testing.T) {
	cl := NewConnectionLimiter(2, 1)

	if !cl.Acquire("127.0.0.1") {
		t.Fatal("expected first connection to be acquired")
	}
	if cl.Acquire("127.0.0.1") {
		t.Error("expected second connection from same IP to be rejected (maxPerIP=1)")
	}
	if !cl.Acquire("10.0.0.1") {
		t.Error("expected connection from a different IP to be acquired")
	}
	if cl.Acquire("10.0.0.2") {
		t.Error("expected third connection to be rejected (global max=2)")
	}

	cl.Release("127.0.0.1")
	if cl.Current() != 1 {
		t.Errorf("Current() = %d, want 1", cl.Current())
	}
}

func TestIPRateLimiter(t *testing.T) {
	ipl := NewIPRateLimiter(10, 2, time.Minute)

	if !ipl.Allow("1.2.3.4") || !ipl.Allow("1.2.3.4") {
		t.Fatal("expected burst of 2 to be allowed")
	}
	if ipl.Allow("1.2.3.4") {
		t.Error("expected third rapid request to be rate limited")
	}
	if !ipl.Allow("5.6.7.8") {
		t.Error("expected a different IP to have its own bucket")
	}
}
