package login

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/aschmelyun/robomovie/internal/credentials"
	"github.com/zalando/go-keyring"
)

func TestRunSavesKey(t *testing.T) {
	keyring.MockInit()
	t.Setenv(credentials.EnvKey, "")

	var out bytes.Buffer
	err := Run(&Params{}, &out, func() (string, error) { return " sk-abc\n", nil })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if key, err := credentials.Key(); err != nil || key != "sk-abc" {
		t.Errorf("Key() = %q, %v", key, err)
	}
	if !strings.Contains(out.String(), "Storage key saved.") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestRunRequiresKey(t *testing.T) {
	keyring.MockInit()
	t.Setenv(credentials.EnvKey, "")

	if err := Run(&Params{}, &bytes.Buffer{}, func() (string, error) { return "   ", nil }); err == nil {
		t.Fatal("expected an error for an empty key")
	}
	if _, err := credentials.Key(); !errors.Is(err, credentials.ErrNoKey) {
		t.Errorf("nothing should be stored, got %v", err)
	}
}

func TestRunReadError(t *testing.T) {
	keyring.MockInit()
	boom := errors.New("boom")
	if err := Run(&Params{}, &bytes.Buffer{}, func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Errorf("Run err = %v; want %v", err, boom)
	}
}

func TestRunLogout(t *testing.T) {
	keyring.MockInit()
	t.Setenv(credentials.EnvKey, "")
	if err := credentials.Save("sk-old"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var out bytes.Buffer
	if err := Run(&Params{Logout: true}, &out, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := credentials.Key(); !errors.Is(err, credentials.ErrNoKey) {
		t.Errorf("key should be gone, got %v", err)
	}
}
