package services

import (
	"context"
	"errors"
	"testing"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
	"github.com/docqa-labs/docqa-core/internal/core/ports/driven/mocks"
)

func TestFileService_Upload(t *testing.T) {
	users := mocks.NewMockUserStore()
	files := mocks.NewMockFileStore()
	blobs := mocks.NewMockBlobStore()
	users.Seed(&domain.User{ID: "user-1", Username: "alice", Email: "alice@example.com"})

	svc := NewFileService(users, files, blobs)

	file, err := svc.Upload(context.Background(), "alice", "notes.txt", "text/plain", []byte("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.ID == "" {
		t.Error("expected generated file ID")
	}
	if file.UserID != "user-1" {
		t.Errorf("expected owner user-1, got %q", file.UserID)
	}
	if file.StorageKey == "" {
		t.Error("expected storage key")
	}

	// Raw bytes round-trip through the blob store.
	data, err := blobs.Get(context.Background(), file.StorageKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("expected stored payload %q, got %q", "hello", string(data))
	}

	got, err := svc.Get(context.Background(), "alice", file.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "notes.txt" || got.ContentType != "text/plain" {
		t.Errorf("metadata mismatch: %+v", got)
	}
}

func TestFileService_Upload_Validation(t *testing.T) {
	users := mocks.NewMockUserStore()
	users.Seed(&domain.User{ID: "user-1", Username: "alice", Email: "alice@example.com"})
	svc := NewFileService(users, mocks.NewMockFileStore(), mocks.NewMockBlobStore())

	if _, err := svc.Upload(context.Background(), "alice", "", "text/plain", nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("missing name: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Upload(context.Background(), "alice", "a.txt", "", nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("missing content type: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Upload(context.Background(), "ghost", "a.txt", "text/plain", nil); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown owner: expected ErrNotFound, got %v", err)
	}
}

func TestFileService_Upload_MetadataFailureCleansBlob(t *testing.T) {
	users := mocks.NewMockUserStore()
	files := mocks.NewMockFileStore()
	blobs := mocks.NewMockBlobStore()
	users.Seed(&domain.User{ID: "user-1", Username: "alice", Email: "alice@example.com"})
	files.SaveErr = errors.New("constraint violation")

	svc := NewFileService(users, files, blobs)
	if _, err := svc.Upload(context.Background(), "alice", "a.txt", "text/plain", []byte("x")); err == nil {
		t.Fatal("expected error from metadata save failure")
	}
	if blobs.Len() != 0 {
		t.Error("orphaned blob left behind after metadata failure")
	}
}

func TestFileService_ListAndGet(t *testing.T) {
	users := mocks.NewMockUserStore()
	files := mocks.NewMockFileStore()
	blobs := mocks.NewMockBlobStore()
	users.Seed(&domain.User{ID: "user-1", Username: "alice", Email: "alice@example.com"})
	users.Seed(&domain.User{ID: "user-2", Username: "bob", Email: "bob@example.com"})

	svc := NewFileService(users, files, blobs)
	aliceFile, _ := svc.Upload(context.Background(), "alice", "a.txt", "text/plain", []byte("a"))
	_, _ = svc.Upload(context.Background(), "bob", "b.txt", "text/plain", []byte("b"))

	list, err := svc.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != aliceFile.ID {
		t.Errorf("expected only alice's file, got %+v", list)
	}

	// Ownership is part of the file identity: bob cannot see alice's file.
	if _, err := svc.Get(context.Background(), "bob", aliceFile.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("cross-owner access: expected ErrNotFound, got %v", err)
	}

	if _, err := svc.List(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown owner: expected ErrNotFound, got %v", err)
	}
}
