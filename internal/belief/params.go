package belief

// OpponentModel predicts the enemy grids after a silent opponent move. When
// registered and ok is true, its grids replace the built-in diffusion.
type OpponentModel interface {
	Predict(s *State) (piece, pawn, king Grid, ok bool)
}

// Params are the tunable constants of the belief model. They carry no
// validated probabilistic meaning; they weigh feasible hypotheses.
type Params struct {
	// Relative priors for who took an own unit.
	PawnCapturePrior  float64
	PieceCapturePrior float64
	KingCapturePrior  float64

	// Diffusion rates for a silent opponent move.
	SlideRate      float64 // per neighbouring square along a line
	KnightRate     float64 // per knight target
	PawnStepRate   float64
	PawnDoubleRate float64
	KingStepRate   float64

	// Danger counter.
	DangerDecay float64
	DangerFloor float64

	// File pawn mass above which a file's envelope prunes vertical slides.
	EnvelopeCertainty float64

	// Readout weights.
	LineWeight    float64 // share of unknown enemy pieces moving along a given line type
	KnightWeight  float64 // share of unknown enemy pieces that are knights
	CaptureWeight float64
	RiskWeight    float64

	// Enemy material assumed when seeding from a placement.
	EnemyPieces float64
	EnemyPawns  float64

	Model OpponentModel `json:"-"`
}

// DefaultParams returns the standard model constants.
func DefaultParams() Params {
	return Params{
		PawnCapturePrior:  0.9,
		PieceCapturePrior: 0.09,
		KingCapturePrior:  0.01,

		SlideRate:      0.04,
		KnightRate:     0.02,
		PawnStepRate:   0.15,
		PawnDoubleRate: 0.10,
		KingStepRate:   0.05,

		DangerDecay: 0.7,
		DangerFloor: 0,

		EnvelopeCertainty: 0.999,

		LineWeight:    0.5,
		KnightWeight:  0.25,
		CaptureWeight: 0.1,
		RiskWeight:    0.5,

		EnemyPieces: 7,
		EnemyPawns:  8,
	}
}

// Option configures the model parameters of a new state.
type Option func(p *Params)

// WithCapturePriors sets the pawn/piece/king capture attribution priors.
func WithCapturePriors(pawn, piece, king float64) Option {
	return func(p *Params) {
		if pawn >= 0 && piece >= 0 && king >= 0 && pawn+piece+king > 0 {
			p.PawnCapturePrior, p.PieceCapturePrior, p.KingCapturePrior = pawn, piece, king
		}
	}
}

// WithDiffusion sets the per-move diffusion rates. Slide rate is capped so a
// square never sends out more mass than it holds.
func WithDiffusion(slide, knight, pawnStep, pawnDouble, kingStep float64) Option {
	return func(p *Params) {
		p.SlideRate = clamp(slide, 0, 0.125)
		p.KnightRate = clamp(knight, 0, 0.125)
		p.PawnStepRate = clamp(pawnStep, 0, 0.5)
		p.PawnDoubleRate = clamp(pawnDouble, 0, 0.5)
		p.KingStepRate = clamp(kingStep, 0, 1)
	}
}

// WithDanger sets the danger decay factor and floor.
func WithDanger(decay, floor float64) Option {
	return func(p *Params) {
		p.DangerDecay = clamp(decay, 0, 1)
		p.DangerFloor = clamp(floor, 0, 1)
	}
}

// WithEnemyCounts sets the enemy material used when seeding from a placement.
func WithEnemyCounts(pieces, pawns float64) Option {
	return func(p *Params) {
		if pieces >= 0 && pieces <= 15 {
			p.EnemyPieces = pieces
		}
		if pawns >= 0 && pawns <= 8 {
			p.EnemyPawns = pawns
		}
	}
}

// WithOpponentModel registers an external move-probability model.
func WithOpponentModel(m OpponentModel) Option {
	return func(p *Params) {
		p.Model = m
	}
}

func newParams(opts []Option) *Params {
	p := DefaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	return &p
}
