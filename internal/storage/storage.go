package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/grandmaster-backend/internal/model"
	"github.com/dgraph-io/badger/v4"
)

// Storage key prefixes, suffixed with the user id
const (
	keyHistory = "history/"
	keyStats   = "stats/"
)

// DefaultHistoryLimit is how many summaries are kept per user.
const DefaultHistoryLimit = 10

// maxConflictRetries bounds how often Record retries a conflicting transaction.
const maxConflictRetries = 5

var ErrEmptyUserID = errors.New("empty user id")

// UserStats stores a user's results against the computer
type UserStats struct {
	GamesPlayed      int            `json:"games_played"`
	Wins             int            `json:"wins"`
	Losses           int            `json:"losses"`
	Draws            int            `json:"draws"`
	WinsByMethod     map[string]int `json:"wins_by_method"`
	TotalPlayTime    time.Duration  `json:"total_play_time"`
	LongestWinStreak int            `json:"longest_win_streak"`
	CurrentStreak    int            `json:"current_streak"`
	LastPlayed       time.Time      `json:"last_played"`
}

// NewUserStats returns empty statistics
func NewUserStats() *UserStats {
	return &UserStats{
		WinsByMethod: make(map[string]int),
	}
}

// WinRate returns the win rate as a percentage (0-100)
func (s *UserStats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

func (s *UserStats) add(summary model.GameSummary) {
	s.GamesPlayed++
	s.TotalPlayTime += time.Duration(summary.GameDurationMinutes) * time.Minute
	if summary.Date.After(s.LastPlayed) {
		s.LastPlayed = summary.Date
	}

	switch summary.Outcome() {
	case model.OutcomeWin:
		s.Wins++
		s.CurrentStreak++
		if s.CurrentStreak > s.LongestWinStreak {
			s.LongestWinStreak = s.CurrentStreak
		}
		s.WinsByMethod[summary.Method]++
	case model.OutcomeLoss:
		s.Losses++
		s.CurrentStreak = 0
	default:
		s.Draws++
		s.CurrentStreak = 0
	}
}

// Storage wraps BadgerDB for per-user game history
type Storage struct {
	db    *badger.DB
	limit int
	// recordMu serializes the read-modify-write in Record.
	recordMu sync.Mutex
}

// Open opens (or creates) the database in dir.
func Open(dir string, limit int) (*Storage, error) {
	return open(badger.DefaultOptions(dir), limit)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory(limit int) (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), limit)
}

func open(opts badger.Options, limit int) (*Storage, error) {
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &Storage{db: db, limit: limit}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores a finished game at the head of the user's history, trims the
// history to the limit and updates the user's statistics.
func (s *Storage) Record(userID string, summary model.GameSummary) error {
	if userID == "" {
		return ErrEmptyUserID
	}

	s.recordMu.Lock()
	defer s.recordMu.Unlock()

	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		err = s.db.Update(func(txn *badger.Txn) error {
			return s.record(txn, userID, summary)
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("record game for %s: %w", userID, err)
}

func (s *Storage) record(txn *badger.Txn, userID string, summary model.GameSummary) error {
	history := make([]model.GameSummary, 0, s.limit)
	if err := getJSON(txn, keyHistory+userID, &history); err != nil {
		return err
	}
	history = append([]model.GameSummary{summary}, history...)
	if len(history) > s.limit {
		history = history[:s.limit]
	}

	stats := NewUserStats()
	if err := getJSON(txn, keyStats+userID, stats); err != nil {
		return err
	}
	if stats.WinsByMethod == nil {
		stats.WinsByMethod = make(map[string]int)
	}
	stats.add(summary)

	if err := setJSON(txn, keyHistory+userID, history); err != nil {
		return err
	}
	return setJSON(txn, keyStats+userID, stats)
}

// List returns the user's history, newest first. Unknown users get an empty list.
func (s *Storage) List(userID string) ([]model.GameSummary, error) {
	history := make([]model.GameSummary, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, keyHistory+userID, &history)
	})
	return history, err
}

// Stats loads the user's statistics, returns empty stats if not found
func (s *Storage) Stats(userID string) (*UserStats, error) {
	stats := NewUserStats()
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, keyStats+userID, stats)
	})
	return stats, err
}

// getJSON decodes the value under key into v, leaving v untouched if the key is absent.
func getJSON(txn *badger.Txn, key string, v interface{}) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}
