package services

import (
	"encoding/json"
	"sort"
	"sync"

	"prompthub/models"
	"prompthub/repositories"

	"go.uber.org/zap"
)

// TrendingBroadcaster pushes a serialized snapshot to subscribers.
type TrendingBroadcaster interface {
	Broadcast(payload []byte)
}

type TrendingEntry struct {
	PromptID  uint    `json:"prompt_id"`
	Title     string  `json:"title"`
	AITool    string  `json:"ai_tool"`
	Usage     int64   `json:"usage"`
	AvgRating float64 `json:"avg_rating"`
}

// TrendingSnapshot carries a monotonically increasing seq; consumers
// drop frames whose seq is not greater than the last one they applied,
// so a late frame can never overwrite a newer board.
type TrendingSnapshot struct {
	Seq     uint64          `json:"seq"`
	Entries []TrendingEntry `json:"entries"`
}

type TrendingService interface {
	TrendingNotifier
	Load() error
	Snapshot() TrendingSnapshot
}

type trendingService struct {
	promptRepo  repositories.PromptRepository
	broadcaster TrendingBroadcaster
	logger      *zap.Logger
	size        int

	mu      sync.Mutex
	seq     uint64
	entries []TrendingEntry
}

func NewTrendingService(promptRepo repositories.PromptRepository, broadcaster TrendingBroadcaster, logger *zap.Logger, size int) TrendingService {
	return &trendingService{
		promptRepo:  promptRepo,
		broadcaster: broadcaster,
		logger:      logger,
		size:        size,
	}
}

// Load seeds the board from storage.
func (s *trendingService) Load() error {
	prompts, err := s.promptRepo.TopByUsage(s.size)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = s.entries[:0]
	for i := range prompts {
		s.entries = append(s.entries, entryFor(&prompts[i]))
	}
	s.sortLocked()
	s.seq++
	return nil
}

func entryFor(p *models.Prompt) TrendingEntry {
	return TrendingEntry{
		PromptID:  p.ID,
		Title:     p.Title,
		AITool:    p.AITool,
		Usage:     p.Stats.Usage,
		AvgRating: p.Stats.AvgRating,
	}
}

func (s *trendingService) sortLocked() {
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].Usage > s.entries[j].Usage
	})
}

// PromptChanged applies a stat change to the board: merge by id when the
// prompt is already displayed, otherwise replace the lowest-ranked entry
// when the new metric exceeds it, then re-sort.
func (s *trendingService) PromptChanged(prompt *models.Prompt) {
	s.mu.Lock()

	changed := false

	if prompt.IsDeleted {
		for i := range s.entries {
			if s.entries[i].PromptID == prompt.ID {
				s.entries = append(s.entries[:i], s.entries[i+1:]...)
				changed = true
				break
			}
		}
	} else {
		entry := entryFor(prompt)
		merged := false
		for i := range s.entries {
			if s.entries[i].PromptID == prompt.ID {
				s.entries[i] = entry
				merged = true
				changed = true
				break
			}
		}
		if !merged {
			if len(s.entries) < s.size {
				s.entries = append(s.entries, entry)
				changed = true
			} else if last := len(s.entries) - 1; entry.Usage > s.entries[last].Usage {
				s.entries[last] = entry
				changed = true
			}
		}
	}

	if !changed {
		s.mu.Unlock()
		return
	}

	s.sortLocked()
	s.seq++
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snapshot)
}

func (s *trendingService) snapshotLocked() TrendingSnapshot {
	entries := make([]TrendingEntry, len(s.entries))
	copy(entries, s.entries)
	return TrendingSnapshot{Seq: s.seq, Entries: entries}
}

func (s *trendingService) Snapshot() TrendingSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *trendingService) publish(snapshot TrendingSnapshot) {
	if s.broadcaster == nil {
		return
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Error("failed to encode trending snapshot", zap.Error(err))
		return
	}
	s.broadcaster.Broadcast(payload)
}
