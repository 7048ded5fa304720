package session

import (
	"encoding/json"
	"testing"
)

func TestEncryptDecrypt(t *testing.T) {
	originalData := "This is a secret message"

	encrypted, err := encrypt([]byte(originalData))
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}

	if encrypted == "" {
		t.Fatal("Encrypted string is empty")
	}

	decrypted, err := decrypt(encrypted)
	if err != nil {
		t.Fatalf("Failed to decrypt: %v", err)
	}

	if string(decrypted) != originalData {
		t.Errorf("Expected %q, got %q", originalData, string(decrypted))
	}
}

func TestSessionSerialization(t *testing.T) {
	original := Session{
		UserID:       42,
		FullName:     "Test User",
		Email:        "test@example.com",
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal session: %v", err)
	}

	encrypted, err := encrypt(data)
	if err != nil {
		t.Fatalf("Failed to encrypt session: %v", err)
	}

	decryptedData, err := decrypt(encrypted)
	if err != nil {
		t.Fatalf("Failed to decrypt session: %v", err)
	}

	var restored Session
	if err := json.Unmarshal(decryptedData, &restored); err != nil {
		t.Fatalf("Failed to unmarshal restored session: %v", err)
	}

	if restored != original {
		t.Errorf("Expected %+v, got %+v", original, restored)
	}
}

func TestSaveLoadClear(t *testing.T) {
	dir := t.TempDir()

	s := &Session{UserID: 7, FullName: "Alice", AccessToken: "tok"}
	if err := Save(dir, s); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded := Load(dir)
	if loaded == nil {
		t.Fatal("Load() returned nil after Save")
	}
	if *loaded != *s {
		t.Errorf("Load() = %+v, want %+v", loaded, s)
	}

	Clear(dir)
	if Load(dir) != nil {
		t.Error("Load() returned a session after Clear")
	}
}

func TestLoad_Missing(t *testing.T) {
	if s := Load(t.TempDir()); s != nil {
		t.Errorf("Load() = %+v, want nil for empty dir", s)
	}
}
