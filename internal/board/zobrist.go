package board

// Zobrist hash keys for the owner's fully known army.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece  [7][64]uint64 // [PieceType][Square] - 7 to handle NoPieceType safely
	zobristCastle [2]uint64     // kingside, queenside of the owner
	zobristOwner  uint64        // XOR when the owner plays black
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234) // Fixed seed

	for pt := Pawn; pt <= King; pt++ {
		for sq := A1; sq <= H8; sq++ {
			zobristPiece[pt][sq] = rng.next()
		}
	}

	zobristCastle[0] = rng.next()
	zobristCastle[1] = rng.next()
	zobristOwner = rng.next()
}

// ZobristPiece returns the Zobrist key for an own piece on a square.
func ZobristPiece(pt PieceType, sq Square) uint64 {
	return zobristPiece[pt][sq]
}

// ZobristCastling returns the XOR of the keys for the rights of color c
// present in cr.
func ZobristCastling(cr CastlingRights, c Color) uint64 {
	var key uint64
	if cr.CanCastle(c, true) {
		key ^= zobristCastle[0]
	}
	if cr.CanCastle(c, false) {
		key ^= zobristCastle[1]
	}
	return key
}

// ZobristOwner returns the key mixed in when the owner plays black.
func ZobristOwner() uint64 {
	return zobristOwner
}
