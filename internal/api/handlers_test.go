package api_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcanales/lanes/internal/api"
	"github.com/rcanales/lanes/internal/database"
	boardsvc "github.com/rcanales/lanes/internal/services/board"
	cardsvc "github.com/rcanales/lanes/internal/services/card"
	columnsvc "github.com/rcanales/lanes/internal/services/column"
	"github.com/rcanales/lanes/internal/testutil"
)

func startServer(t *testing.T) *api.Client {
	t.Helper()

	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := api.NewRouter(
		boardsvc.NewService(repo),
		columnsvc.NewService(repo, nil),
		cardsvc.NewService(repo, nil),
		logger,
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL)
}

func TestBoardLifecycle(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	board, err := client.CreateBoard(ctx, "Roadmap")
	require.NoError(t, err)
	assert.NotEmpty(t, board.ID)

	boards, err := client.ListBoards(ctx)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, "Roadmap", boards[0].Name)
}

func TestBoardDetailAssemblesSortedState(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	board, err := client.CreateBoard(ctx, "Roadmap")
	require.NoError(t, err)

	todo, err := client.CreateColumn(ctx, board.ID, "Todo")
	require.NoError(t, err)
	done, err := client.CreateColumn(ctx, board.ID, "Done")
	require.NoError(t, err)

	_, err = client.CreateCard(ctx, todo.ID, "Second", 2)
	require.NoError(t, err)
	_, err = client.CreateCard(ctx, todo.ID, "First", 1)
	require.NoError(t, err)

	detail, err := client.GetBoardDetail(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, detail.Columns, 2)
	assert.Equal(t, todo.ID, detail.Columns[0].ID)
	assert.Equal(t, done.ID, detail.Columns[1].ID)

	require.Len(t, detail.Columns[0].Cards, 2)
	assert.Equal(t, "First", detail.Columns[0].Cards[0].Title)
	assert.Equal(t, "Second", detail.Columns[0].Cards[1].Title)
}

func TestMoveCardEndpoint(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	board, err := client.CreateBoard(ctx, "Roadmap")
	require.NoError(t, err)
	todo, err := client.CreateColumn(ctx, board.ID, "Todo")
	require.NoError(t, err)
	done, err := client.CreateColumn(ctx, board.ID, "Done")
	require.NoError(t, err)

	card, err := client.CreateCard(ctx, todo.ID, "Ship it", 1)
	require.NoError(t, err)

	moved, err := client.MoveCard(ctx, card.ID, done.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, done.ID, moved.ColumnID)
	assert.Equal(t, 1.0, moved.Position)
}

func TestMoveColumnEndpoint(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	board, err := client.CreateBoard(ctx, "Roadmap")
	require.NoError(t, err)
	a, err := client.CreateColumn(ctx, board.ID, "A")
	require.NoError(t, err)
	b, err := client.CreateColumn(ctx, board.ID, "B")
	require.NoError(t, err)

	moved, err := client.MoveColumn(ctx, b.ID, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.5, moved.Position)

	detail, err := client.GetBoardDetail(ctx, board.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, detail.Columns[0].ID)
	assert.Equal(t, a.ID, detail.Columns[1].ID)
}

func TestValidationAndNotFoundErrors(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	_, err := client.CreateBoard(ctx, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name cannot be empty")

	_, err = client.MoveCard(ctx, "missing", "also-missing", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestTagEndpoints(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	board, err := client.CreateBoard(ctx, "Roadmap")
	require.NoError(t, err)
	col, err := client.CreateColumn(ctx, board.ID, "Todo")
	require.NoError(t, err)
	card, err := client.CreateCard(ctx, col.ID, "Tagged", 1)
	require.NoError(t, err)

	tagged, err := client.AttachTag(ctx, card.ID, "backend")
	require.NoError(t, err)
	assert.Equal(t, []string{"backend"}, tagged.Tags)

	untagged, err := client.DetachTag(ctx, card.ID, "backend")
	require.NoError(t, err)
	assert.Empty(t, untagged.Tags)
}
