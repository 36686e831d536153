package services

import (
	"encoding/json"
	"testing"

	"prompthub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func trendingPrompt(id uint, title string, usage int64) *models.Prompt {
	return &models.Prompt{
		ID:     id,
		Title:  title,
		AITool: "chatgpt",
		Stats:  models.PromptStats{Usage: usage},
	}
}

func TestTrendingLoadSeedsFromStorage(t *testing.T) {
	repo := newFakePromptRepo()
	for _, usage := range []int64{5, 20, 10} {
		p := trendingPrompt(0, "p", usage)
		require.NoError(t, repo.Create(p))
		require.NoError(t, repo.UpdateStats(p.ID, models.PromptStats{Usage: usage}))
	}

	svc := NewTrendingService(repo, nil, zap.NewNop(), 2)
	require.NoError(t, svc.Load())

	snapshot := svc.Snapshot()
	require.Len(t, snapshot.Entries, 2)
	assert.EqualValues(t, 20, snapshot.Entries[0].Usage)
	assert.EqualValues(t, 10, snapshot.Entries[1].Usage)
}

func TestTrendingMergesExistingEntry(t *testing.T) {
	bc := &captureBroadcaster{}
	svc := NewTrendingService(newFakePromptRepo(), bc, zap.NewNop(), 3)

	svc.PromptChanged(trendingPrompt(1, "one", 10))
	svc.PromptChanged(trendingPrompt(1, "one", 15))

	snapshot := svc.Snapshot()
	require.Len(t, snapshot.Entries, 1)
	assert.EqualValues(t, 15, snapshot.Entries[0].Usage)
	assert.Len(t, bc.frames, 2)
}

func TestTrendingReplacesLowestWhenFull(t *testing.T) {
	svc := NewTrendingService(newFakePromptRepo(), nil, zap.NewNop(), 2)

	svc.PromptChanged(trendingPrompt(1, "high", 100))
	svc.PromptChanged(trendingPrompt(2, "low", 10))

	// Below the lowest ranked entry: ignored
	svc.PromptChanged(trendingPrompt(3, "lower", 5))
	snapshot := svc.Snapshot()
	require.Len(t, snapshot.Entries, 2)
	assert.EqualValues(t, 2, snapshot.Entries[1].PromptID)

	// Above it: the lowest entry is replaced and the board re-sorted
	svc.PromptChanged(trendingPrompt(4, "mid", 50))
	snapshot = svc.Snapshot()
	require.Len(t, snapshot.Entries, 2)
	assert.EqualValues(t, 1, snapshot.Entries[0].PromptID)
	assert.EqualValues(t, 4, snapshot.Entries[1].PromptID)
}

func TestTrendingRemovesDeletedPrompt(t *testing.T) {
	svc := NewTrendingService(newFakePromptRepo(), nil, zap.NewNop(), 3)

	svc.PromptChanged(trendingPrompt(1, "one", 10))
	svc.PromptChanged(trendingPrompt(2, "two", 20))

	deleted := trendingPrompt(2, "two", 20)
	deleted.IsDeleted = true
	svc.PromptChanged(deleted)

	snapshot := svc.Snapshot()
	require.Len(t, snapshot.Entries, 1)
	assert.EqualValues(t, 1, snapshot.Entries[0].PromptID)
}

func TestTrendingSeqIsMonotonic(t *testing.T) {
	bc := &captureBroadcaster{}
	svc := NewTrendingService(newFakePromptRepo(), bc, zap.NewNop(), 2)

	svc.PromptChanged(trendingPrompt(1, "one", 10))
	svc.PromptChanged(trendingPrompt(2, "two", 20))
	svc.PromptChanged(trendingPrompt(1, "one", 30))

	var last uint64
	for _, frame := range bc.frames {
		var snapshot TrendingSnapshot
		require.NoError(t, json.Unmarshal(frame, &snapshot))
		assert.Greater(t, snapshot.Seq, last)
		last = snapshot.Seq
	}
	assert.EqualValues(t, 3, last)
}

func TestTrendingNoBroadcastWhenUnchanged(t *testing.T) {
	bc := &captureBroadcaster{}
	svc := NewTrendingService(newFakePromptRepo(), bc, zap.NewNop(), 1)

	svc.PromptChanged(trendingPrompt(1, "one", 100))
	require.Len(t, bc.frames, 1)

	// An off-board prompt below the cut produces no frame
	svc.PromptChanged(trendingPrompt(2, "two", 1))
	assert.Len(t, bc.frames, 1)
}
