// Package engine ranks the owner's candidate moves by expanding each one on a
// lightweight copy of the belief and scoring the result.
package engine

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Ludeme/Ludii-sub013/internal/belief"
	"github.com/Ludeme/Ludii-sub013/internal/board"
	"github.com/Ludeme/Ludii-sub013/internal/umpire"
)

// Scored is one ranked candidate move.
type Scored struct {
	Move      board.Move
	Score     float64
	Risk      float64
	Hash      uint64 // hash of the owner's army after the move
	Broken    bool   // the child belief became inconsistent
	Recovered bool   // the child was rebuilt with a uniform reset
}

// RankInfo summarises one call to Rank.
type RankInfo struct {
	Candidates int
	Ranked     int
	Dropped    int
	Nodes      uint64
	Time       time.Duration
}

// ReplyModel predicts the umpire's announcement for the opponent's reply in
// a child belief.
type ReplyModel func(s *belief.State) umpire.OpponentReport

// Option configures a Ranker.
type Option func(*Ranker)

// WithReplyModel sets the assumed opponent reply. The default is a silent
// reply with no tries.
func WithReplyModel(m ReplyModel) Option {
	return func(r *Ranker) {
		if m != nil {
			r.reply = m
		}
	}
}

// WithSkipBroken drops candidates whose child belief breaks.
func WithSkipBroken(skip bool) Option {
	return func(r *Ranker) { r.skipBroken = skip }
}

// WithRecoverBroken rebuilds broken children with a uniform reset before
// scoring them. It takes precedence over WithSkipBroken.
func WithRecoverBroken(on bool) Option {
	return func(r *Ranker) { r.recoverBroken = on }
}

// WithLogger sets the logger used for ranking diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Ranker) { r.logger = l }
}

// WithTableSize sets the minimum number of deduplication table entries.
func WithTableSize(n int) Option {
	return func(r *Ranker) { r.tableSize = n }
}

// Ranker scores candidate moves in parallel. A Ranker is not safe for
// concurrent calls to Rank; its scratch slots are reused between calls.
type Ranker struct {
	threads       int
	reply         ReplyModel
	skipBroken    bool
	recoverBroken bool
	logger        zerolog.Logger
	tableSize     int

	pool  *belief.ScratchPool
	table *Table

	// Callbacks
	OnInfo func(RankInfo)
}

// NewRanker creates a ranker with the given number of worker goroutines.
func NewRanker(threads int, opts ...Option) *Ranker {
	if threads < 1 {
		threads = 1
	}
	r := &Ranker{
		threads:    threads,
		reply:      func(*belief.State) umpire.OpponentReport { return umpire.SilentOpponentMove() },
		skipBroken: true,
		logger:     log.Logger,
		tableSize:  1024,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.pool = belief.NewScratchPool(threads)
	r.table = NewTable(r.tableSize)
	return r
}

// Threads returns the number of worker goroutines.
func (r *Ranker) Threads() int {
	return r.threads
}

// Rank generates the owner's top-level moves in s and returns them scored
// best-first. Transpositions reaching the same army are reported once.
func (r *Ranker) Rank(ctx context.Context, s *belief.State) ([]Scored, error) {
	start := time.Now()
	r.table.NewSearch()

	// Slot 0 belongs to the caller; the generated list aliases it.
	moves := append([]board.Move(nil), s.GenerateMoves(r.pool.Slot(0), true)...)

	var (
		stopFlag atomic.Bool
		nodes    atomic.Uint64
		wg       sync.WaitGroup
	)
	jobs := make(chan int)
	results := make(chan WorkerResult, len(moves))

	for i := 0; i < r.threads; i++ {
		w := newWorker(i+1, r, r.pool.Slot(i+1), s, moves, &stopFlag, results)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run(jobs)
			nodes.Add(w.nodes)
		}()
	}

dispatch:
	for i := range moves {
		select {
		case <-ctx.Done():
			stopFlag.Store(true)
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranked := make([]Scored, 0, len(moves))
	dropped := 0
	for res := range results {
		if res.Scored.Broken && !res.Scored.Recovered && r.skipBroken {
			dropped++
			continue
		}
		if e, ok := r.table.Probe(res.Scored.Hash); ok && int(e.Index) != res.Index {
			continue
		}
		ranked = append(ranked, res.Scored)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return lessMove(ranked[i].Move, ranked[j].Move)
	})

	info := RankInfo{
		Candidates: len(moves),
		Ranked:     len(ranked),
		Dropped:    dropped,
		Nodes:      nodes.Load(),
		Time:       time.Since(start),
	}
	r.logger.Debug().
		Int("candidates", info.Candidates).
		Int("ranked", info.Ranked).
		Int("dropped", info.Dropped).
		Dur("elapsed", info.Time).
		Msg("ranked moves")
	if r.OnInfo != nil {
		r.OnInfo(info)
	}
	return ranked, nil
}

// Best returns the highest ranked move, or board.NoMove when none survives.
func (r *Ranker) Best(ctx context.Context, s *belief.State) (board.Move, error) {
	ranked, err := r.Rank(ctx, s)
	if err != nil {
		return board.NoMove, err
	}
	if len(ranked) == 0 {
		return board.NoMove, nil
	}
	return ranked[0].Move, nil
}

func lessMove(a, b board.Move) bool {
	if a.From != b.From {
		return a.From < b.From
	}
	if a.To != b.To {
		return a.To < b.To
	}
	return a.Promotion < b.Promotion
}
