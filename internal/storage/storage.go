package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/Ludeme/Ludii-sub013/internal/belief"
)

// ErrNotFound is returned when no snapshot exists for a game or ply.
var ErrNotFound = errors.New("snapshot not found")

// Key layout
const (
	prefixSnapshot = "snap/"
	prefixGame     = "game/"
)

// GameInfo summarizes the stored snapshots of one game.
type GameInfo struct {
	Owner     string    `json:"owner"`
	Snapshots int       `json:"snapshots"`
	LastPly   int       `json:"last_ply"`
	Broken    bool      `json:"broken"`
	Updated   time.Time `json:"updated"`
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) a database in dir.
func Open(dir string) (*Storage, error) {
	return open(badger.DefaultOptions(dir))
}

// OpenDefault opens the database in the platform data directory.
func OpenDefault() (*Storage, error) {
	dbDir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Storage, error) {
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func checkGame(game string) error {
	if game == "" || strings.ContainsAny(game, "/ \t\n") {
		return fmt.Errorf("invalid game id: %q", game)
	}
	return nil
}

func snapshotKey(game string, ply int) []byte {
	return []byte(fmt.Sprintf("%s%s/%06d", prefixSnapshot, game, ply))
}

func snapshotPrefix(game string) []byte {
	return []byte(prefixSnapshot + game + "/")
}

func gameKey(game string) []byte {
	return []byte(prefixGame + game)
}

// SaveSnapshot stores the state of game at ply, replacing any earlier one.
func (s *Storage) SaveSnapshot(game string, ply int, st *belief.State) error {
	if err := checkGame(game); err != nil {
		return err
	}
	if ply < 0 {
		return fmt.Errorf("invalid ply: %d", ply)
	}

	data, err := json.Marshal(st.Snapshot())
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		info := &GameInfo{Owner: st.Owner().String()}
		if err := getJSON(txn, gameKey(game), info); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		key := snapshotKey(game, ply)
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			info.Snapshots++
		} else if err != nil {
			return err
		}
		if ply >= info.LastPly {
			info.LastPly = ply
			info.Broken = st.Broken()
		}
		info.Updated = time.Now()

		if err := txn.Set(key, data); err != nil {
			return err
		}
		meta, err := json.Marshal(info)
		if err != nil {
			return err
		}
		return txn.Set(gameKey(game), meta)
	})
	if err != nil {
		return fmt.Errorf("save snapshot %s/%d: %w", game, ply, err)
	}
	return nil
}

// LoadSnapshot restores the state of game at ply. Options are applied over
// the stored model parameters.
func (s *Storage) LoadSnapshot(game string, ply int, opts ...belief.Option) (*belief.State, error) {
	var sn belief.Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, snapshotKey(game, ply), &sn)
	})
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s/%d: %w", game, ply, err)
	}
	return belief.FromSnapshot(sn, opts...)
}

// Latest restores the snapshot with the highest ply of game.
func (s *Storage) Latest(game string, opts ...belief.Option) (int, *belief.State, error) {
	plies, err := s.Plies(game)
	if err != nil {
		return 0, nil, err
	}
	if len(plies) == 0 {
		return 0, nil, fmt.Errorf("latest snapshot %s: %w", game, ErrNotFound)
	}
	ply := plies[len(plies)-1]
	st, err := s.LoadSnapshot(game, ply, opts...)
	return ply, st, err
}

// Plies lists the stored plies of game in ascending order.
func (s *Storage) Plies(game string) ([]int, error) {
	if err := checkGame(game); err != nil {
		return nil, err
	}
	prefix := snapshotPrefix(game)

	var plies []int
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			ply, err := strconv.Atoi(key[len(prefix):])
			if err != nil {
				return fmt.Errorf("corrupt snapshot key %q", key)
			}
			plies = append(plies, ply)
		}
		return nil
	})
	sort.Ints(plies)
	return plies, err
}

// Game returns the summary of game.
func (s *Storage) Game(game string) (*GameInfo, error) {
	info := &GameInfo{}
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, gameKey(game), info)
	})
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", game, err)
	}
	return info, nil
}

// Games lists the stored game ids.
func (s *Storage) Games() ([]string, error) {
	prefix := []byte(prefixGame)

	var games []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			games = append(games, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	return games, err
}

// DeleteGame removes every snapshot of game and its summary.
func (s *Storage) DeleteGame(game string) error {
	if err := checkGame(game); err != nil {
		return err
	}
	if err := s.db.DropPrefix(snapshotPrefix(game)); err != nil {
		return fmt.Errorf("delete game %s: %w", game, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(gameKey(game))
	})
}

// getJSON decodes the value under key into v, or returns ErrNotFound.
func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}
