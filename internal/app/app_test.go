package app

import (
	"testing"

	"github.com/rcanales/lanes/internal/database"
	"github.com/rcanales/lanes/internal/testutil"
)

func TestNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)

	a := New(repo)

	if a == nil {
		t.Fatal("Expected app to be created, got nil")
	}
	if a.BoardService == nil {
		t.Error("Expected BoardService to be initialized")
	}
	if a.ColumnService == nil {
		t.Error("Expected ColumnService to be initialized")
	}
	if a.CardService == nil {
		t.Error("Expected CardService to be initialized")
	}
}

func TestClose(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)

	a := New(repo)

	if err := a.Close(); err != nil {
		t.Errorf("Expected Close to succeed, got error: %v", err)
	}
}
