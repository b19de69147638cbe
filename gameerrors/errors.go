package gameerrors

import (
	"errors"
	"strings"
)

// Input (I) Errors, rejected before any relation is evaluated
var (
	ErrIUnknownOpcode    = errors.New("I1|UnknownOpcode: Opcode is not one of UP(1), LEFT(2), RIGHT(3), DOWN(4).")
	ErrIEmptyPath        = errors.New("I2|EmptyPath: A game must contain at least one move.")
	ErrKeyOutOfRange     = errors.New("I3|KeyOutOfRange: Tree key does not fit the configured depth.")
	ErrIBadGridSize      = errors.New("I4|BadGridSize: Grid side length must be at least 2.")
	ErrILeavesGrid       = errors.New("I5|LeavesGrid: Move would take the location outside the grid.")
	ErrIMalformedProof   = errors.New("I6|MalformedProof: Proof encoding could not be decoded.")
	ErrIEnvelopeMismatch = errors.New("I7|EnvelopeMismatch: Proof file names a backend or grid the verifier was not set up for.")
)

// Move relation (M) Errors
var (
	ErrMUnknownOpcode     = errors.New("M1|UnknownOpcode: Private opcode selects no direction.")
	ErrMBadDirection      = errors.New("M2|BadDirection: Location delta does not match the opcode direction.")
	ErrMOutOfBounds       = errors.New("M3|OutOfBounds: Location is outside [0, N*N).")
	ErrMClaimedNotBoolean = errors.New("M4|ClaimedNotBoolean: Claimed flag is neither 0 nor 1.")
	ErrMClaimedWitness    = errors.New("M5|ClaimedWitness: Claimed witness does not recompute the previous claimed root.")
	ErrMTreasureWitness   = errors.New("M6|TreasureWitness: Treasure witness does not recompute the scores root.")
	ErrMScoreUpdate       = errors.New("M7|ScoreUpdate: Next score does not follow the claim rule.")
	ErrMMoveCount         = errors.New("M8|MoveCount: A single step must carry moves = 1.")
	ErrMClaimedUpdate     = errors.New("M9|ClaimedUpdate: Next claimed root does not mark the destination as claimed.")
	ErrMWitnessKey        = errors.New("M10|WitnessKey: Witness key differs from the destination cell.")
)

// Fold relation (F) Errors
var (
	ErrFChildInvalid = errors.New("F1|ChildInvalid: A child proof does not verify.")
	ErrFLocationGap  = errors.New("F2|LocationGap: Left segment does not end where the right segment starts.")
	ErrFScoreGap     = errors.New("F3|ScoreGap: Left segment score does not continue into the right segment.")
	ErrFClaimedGap   = errors.New("F4|ClaimedGap: Left segment claimed root does not continue into the right segment.")
	ErrFScoresRoot   = errors.New("F5|ScoresRoot: Segments were proved against different treasure maps.")
	ErrFMoveCount    = errors.New("F6|MoveCount: Folded move count is not the sum of the children.")
	ErrFEndpoints    = errors.New("F7|Endpoints: Folded statement does not span the children's endpoints.")
	ErrFBadSeal      = errors.New("F8|BadSeal: Proof seal does not verify against its statement.")
)

// Contract (C) Errors
var (
	ErrCInvalidProof     = errors.New("C1|InvalidProof: Submitted proof does not verify.")
	ErrCBadStartScore    = errors.New("C2|BadStartScore: Proof does not start from score 0.")
	ErrCBadStartLocation = errors.New("C3|BadStartLocation: Proof does not start from location 0.")
	ErrCWrongMap         = errors.New("C4|WrongMap: Proof was produced against a different treasure map.")
	ErrCEmptyPlayer      = errors.New("C5|EmptyPlayer: Submission has no player name.")
	ErrCBadSignature     = errors.New("C6|BadSignature: Submission signature does not recover a player address.")
)

var all = []error{
	ErrIUnknownOpcode, ErrIEmptyPath, ErrKeyOutOfRange, ErrIBadGridSize, ErrILeavesGrid, ErrIMalformedProof,
	ErrIEnvelopeMismatch,
	ErrMUnknownOpcode, ErrMBadDirection, ErrMOutOfBounds, ErrMClaimedNotBoolean, ErrMClaimedWitness,
	ErrMTreasureWitness, ErrMScoreUpdate, ErrMMoveCount, ErrMClaimedUpdate, ErrMWitnessKey,
	ErrFChildInvalid, ErrFLocationGap, ErrFScoreGap, ErrFClaimedGap, ErrFScoresRoot, ErrFMoveCount,
	ErrFEndpoints, ErrFBadSeal,
	ErrCInvalidProof, ErrCBadStartScore, ErrCBadStartLocation, ErrCWrongMap, ErrCEmptyPlayer,
	ErrCBadSignature,
}

// sentinel returns the first known error err wraps, or nil.
// Wrapped chains may carry several sentinels (a contract rejection wrapping
// the fold failure); the outermost registered one wins.
func sentinel(err error) error {
	for e := err; e != nil; e = errors.Unwrap(e) {
		for _, s := range all {
			if e == s {
				return s
			}
		}
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				if s := sentinel(inner); s != nil {
					return s
				}
			}
		}
	}
	return nil
}

// GetErrorName extracts the error name from the error message.
func GetErrorName(err error) string {
	if err == nil {
		return "No Error"
	}
	errStr := err.Error()
	if s := sentinel(err); s != nil {
		errStr = s.Error()
	}
	if !strings.Contains(errStr, "|") || !strings.Contains(errStr, ":") {
		return errStr
	}
	parts := strings.SplitN(errStr, "|", 2)
	nameParts := strings.SplitN(parts[1], ":", 2)
	return strings.TrimSpace(nameParts[0])
}

// GetErrorCode extracts the error code from the error message.
func GetErrorCode(err error) string {
	if err == nil {
		return ""
	}
	s := sentinel(err)
	if s == nil {
		return ""
	}
	parts := strings.SplitN(s.Error(), "|", 2)
	return strings.TrimSpace(parts[0])
}

// GetErrorCodeWithName returns the error code and name in the format "Code_ErrorName".
func GetErrorCodeWithName(err error) string {
	code := GetErrorCode(err)
	name := GetErrorName(err)
	if code == "" || name == "" {
		return ""
	}
	return code + "_" + name
}

// IsInputError reports whether err was raised before the relation was evaluated.
func IsInputError(err error) bool {
	return strings.HasPrefix(GetErrorCode(err), "I")
}

// IsRelationError reports whether err is an unsatisfiable move or fold relation.
func IsRelationError(err error) bool {
	code := GetErrorCode(err)
	return strings.HasPrefix(code, "M") || strings.HasPrefix(code, "F")
}
