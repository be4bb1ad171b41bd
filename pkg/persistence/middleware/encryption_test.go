package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"strings"
	"testing"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/adapters/memory"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/persistence/middleware"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func newSession(id string) *domain.Session {
	s := domain.NewSession(id, domain.PatientRecord{FirstName: "John", LastName: "Doe", Age: 45})
	s.ComplaintID = "chest-pain"
	s.Status = domain.StatusAwaitingAnswer
	s.CurrentQuestionID = "severity"
	s.History = []string{"onset", "severity"}
	s.Record.Answers = domain.NewAnswerMap("onset", "2024-03-08")
	return s
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunSessionStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := memory.NewStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	sessionID := "test-session"
	original := newSession(sessionID)

	if err := secureStore.Save(ctx, sessionID, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The underlying store only sees the envelope.
	stored, err := underlyingStore.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if stored.Record.FirstName != "" || stored.CurrentQuestionID != "" || len(stored.History) != 0 {
		t.Fatalf("Expected demographics and cursor to be hidden, got %+v", stored)
	}
	if stored.Record.Answers.Has("onset") {
		t.Fatal("Expected answers to be hidden")
	}
	if _, ok := stored.Record.Answers.String(middleware.EnvelopeKey); !ok {
		t.Fatal("Expected envelope answer")
	}
	if stored.Status != domain.StatusAwaitingAnswer {
		t.Errorf("Expected status to stay visible, got %s", stored.Status)
	}

	loaded, err := secureStore.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	if loaded.Record.FirstName != "John" || loaded.CurrentQuestionID != "severity" {
		t.Errorf("Decrypted session mismatch: %+v", loaded)
	}
	if v, _ := loaded.Record.Answers.String("onset"); v != "2024-03-08" {
		t.Errorf("Expected onset answer, got %q", v)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureStoreOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)

	ctx := context.Background()
	sessionID := "rotation-session"
	original := newSession(sessionID)
	original.Record.Answers.Set("note", "encrypted-with-old-key")

	if err := secureStoreOld.Save(ctx, sessionID, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	secureStoreNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	loaded, err := secureStoreNew.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}
	if v, _ := loaded.Record.Answers.String("note"); v != "encrypted-with-old-key" {
		t.Errorf("Decryption with fallback key failed, got %q", v)
	}

	loaded.Record.Answers.Set("note", "encrypted-with-new-key")
	if err := secureStoreNew.Save(ctx, sessionID, loaded); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}

	if _, err := secureStoreOld.Load(ctx, sessionID); err == nil {
		t.Error("Expected failure when loading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_RejectsPlaintext(t *testing.T) {
	underlyingStore := memory.NewStore()
	ctx := context.Background()
	if err := underlyingStore.Save(ctx, "plain", newSession("plain")); err != nil {
		t.Fatal(err)
	}

	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)
	if _, err := secureStore.Load(ctx, "plain"); err == nil {
		t.Error("Expected plaintext session to be rejected")
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic for invalid key size")
		}
	}()
	middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
}

func TestKeyFromHex(t *testing.T) {
	key, err := middleware.KeyFromHex(strings.Repeat("ab", 32))
	if err != nil || len(key) != 32 {
		t.Fatalf("expected 32 byte key, got %d (%v)", len(key), err)
	}
	if _, err := middleware.KeyFromHex("abcd"); err == nil {
		t.Error("expected short key error")
	}
	if _, err := middleware.KeyFromHex(strings.Repeat("zz", 32)); err == nil {
		t.Error("expected hex error")
	}
}
