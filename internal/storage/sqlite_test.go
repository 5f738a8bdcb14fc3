package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/forensica/triage/internal/models"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "triage.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleBatch(id string) *models.Batch {
	return &models.Batch{
		ID:   id,
		Name: "case files",
		Records: []models.Record{
			{
				Path:    "a_threat.txt",
				Type:    "file",
				Content: models.Content{Text: "bomb plans for 2023-05-01"},
				Tags:    []string{"rifle", "map"},
			},
			{
				Path: "b.jpg",
				Type: "image",
				Tags: []string{"beach"},
			},
		},
	}
}

func TestSQLiteStorage_CreateAndGetBatch(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	if err := s.CreateBatch(ctx, sampleBatch("b1")); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	got, err := s.GetBatch(ctx, "b1")
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if got.ID != "b1" || got.Name != "case files" {
		t.Errorf("batch header = %q/%q", got.ID, got.Name)
	}
	if len(got.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(got.Records))
	}
	if got.Records[0].Path != "a_threat.txt" || got.Records[1].Path != "b.jpg" {
		t.Errorf("record order not preserved: %q, %q", got.Records[0].Path, got.Records[1].Path)
	}
	if got.Records[0].Text() != "bomb plans for 2023-05-01" {
		t.Errorf("content = %q", got.Records[0].Text())
	}
	if len(got.Records[0].Tags) != 2 || got.Records[0].Tags[0] != "rifle" {
		t.Errorf("tags = %v", got.Records[0].Tags)
	}
	if got.Records[1].Text() != "" {
		t.Errorf("image record content = %q, want empty", got.Records[1].Text())
	}
}

func TestSQLiteStorage_GetBatchNotFound(t *testing.T) {
	s := newTestStorage(t)
	if _, err := s.GetBatch(context.Background(), "missing"); err == nil {
		t.Error("expected error for missing batch")
	}
}

func TestSQLiteStorage_ListAndCount(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for _, id := range []string{"b1", "b2", "b3"} {
		if err := s.CreateBatch(ctx, sampleBatch(id)); err != nil {
			t.Fatalf("CreateBatch %s: %v", id, err)
		}
	}

	count, err := s.CountBatches(ctx)
	if err != nil {
		t.Fatalf("CountBatches: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	batches, err := s.ListBatches(ctx, 0, 2)
	if err != nil {
		t.Fatalf("ListBatches: %v", err)
	}
	if len(batches) != 2 {
		t.Errorf("got %d batches, want 2 (limit)", len(batches))
	}
	for _, b := range batches {
		if len(b.Records) != 0 {
			t.Errorf("list should return headers only, batch %s has %d records", b.ID, len(b.Records))
		}
	}
}

func TestSQLiteStorage_DeleteBatch(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	if err := s.CreateBatch(ctx, sampleBatch("b1")); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := s.DeleteBatch(ctx, "b1"); err != nil {
		t.Fatalf("DeleteBatch: %v", err)
	}
	if _, err := s.GetBatch(ctx, "b1"); err == nil {
		t.Error("batch should be gone after delete")
	}
	if err := s.DeleteBatch(ctx, "b1"); err == nil {
		t.Error("deleting a missing batch should error")
	}
}

func TestSQLiteStorage_DuplicateBatchID(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	if err := s.CreateBatch(ctx, sampleBatch("b1")); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := s.CreateBatch(ctx, sampleBatch("b1")); err == nil {
		t.Error("expected primary key violation for duplicate batch ID")
	}
}
