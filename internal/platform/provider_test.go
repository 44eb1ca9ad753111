package platform

import (
	"runtime"
	"testing"
)

func TestNewProvider_ReturnsProvider(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("skipping on non-windows")
	}
	// The win32 package is only registered when the binary imports it;
	// just verify the call doesn't panic.
	p, err := NewProvider()
	if err == nil && p != nil {
		p.Close()
	}
}

func TestNewProvider_UnsupportedPlatform(t *testing.T) {
	orig := NewProviderFunc
	NewProviderFunc = nil
	defer func() { NewProviderFunc = orig }()

	_, err := NewProvider()
	if err == nil {
		t.Fatal("expected error on unsupported platform")
	}
	if err != ErrUnsupported {
		t.Errorf("expected ErrUnsupported, got: %v", err)
	}
}

func TestProvider_CloseCallsRelease(t *testing.T) {
	called := false
	p := &Provider{Release: func() { called = true }}
	p.Close()
	if !called {
		t.Error("Close should call Release")
	}

	// nil Release is fine
	(&Provider{}).Close()
}
