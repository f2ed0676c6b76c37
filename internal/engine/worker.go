package engine

import (
	"math"
	"sync/atomic"

	"github.com/Ludeme/Ludii-sub013/internal/belief"
	"github.com/Ludeme/Ludii-sub013/internal/board"
	"github.com/Ludeme/Ludii-sub013/internal/umpire"
)

// Worker expands candidate moves of one root belief. Each worker owns a
// scratch slot; the root state and move list are shared read-only.
type Worker struct {
	id int

	ranker *Ranker
	sc     *belief.Scratch
	root   *belief.State
	hash   uint64
	moves  []board.Move

	nodes    uint64
	stopFlag *atomic.Bool

	// Communication channel for results
	resultCh chan<- WorkerResult
}

// WorkerResult carries one scored candidate back to the ranker.
type WorkerResult struct {
	WorkerID int
	Index    int
	Scored   Scored
}

func newWorker(id int, r *Ranker, sc *belief.Scratch, root *belief.State, moves []board.Move, stop *atomic.Bool, out chan<- WorkerResult) *Worker {
	return &Worker{
		id:       id,
		ranker:   r,
		sc:       sc,
		root:     root,
		hash:     root.Hash(),
		moves:    moves,
		stopFlag: stop,
		resultCh: out,
	}
}

func (w *Worker) run(jobs <-chan int) {
	for i := range jobs {
		if w.stopFlag.Load() {
			continue
		}
		w.resultCh <- WorkerResult{WorkerID: w.id, Index: i, Scored: w.expand(i, w.moves[i])}
	}
}

// expand plays the move with a silent umpire, lets the opponent reply and
// scores the resulting belief.
func (w *Worker) expand(index int, m board.Move) Scored {
	child := w.root.Clone(true).AfterOwnMove(w.sc, m, umpire.SilentOwnMove())
	child = child.AfterOpponentMove(w.sc, w.ranker.reply(child))
	w.nodes++

	sc := Scored{Move: m, Score: math.Inf(-1), Hash: w.root.HashAfterMove(w.hash, m)}
	if child.Broken() {
		sc.Broken = true
		w.ranker.logger.Warn().
			Int("worker", w.id).
			Str("move", m.String()).
			Bool("recover", w.ranker.recoverBroken).
			Msg("child belief broken")
		if !w.ranker.recoverBroken {
			return sc
		}
		child = child.UniformReset()
		sc.Recovered = !child.Broken()
		if !sc.Recovered {
			return sc
		}
	}

	sc.Score = child.Evaluate()
	sc.Risk = child.Risk()
	w.ranker.table.Store(sc.Hash, sc.Score, index)
	return sc
}
