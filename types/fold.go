package types

import (
	"fmt"

	"github.com/colorfulnotion/treasure/common"
	"github.com/colorfulnotion/treasure/gameerrors"
)

// CheckContinuity reports whether right starts exactly where left ends.
func CheckContinuity(left, right Statement) error {
	if !left.ScoresRoot.Equal(&right.ScoresRoot) {
		return gameerrors.ErrFScoresRoot
	}
	if !left.Location.Next.Equal(&right.Location.Prev) {
		return fmt.Errorf("%w: %s then %s", gameerrors.ErrFLocationGap,
			common.FieldShort(left.Location.Next), common.FieldShort(right.Location.Prev))
	}
	if !left.Score.Next.Equal(&right.Score.Prev) {
		return fmt.Errorf("%w: %s then %s", gameerrors.ErrFScoreGap,
			common.FieldShort(left.Score.Next), common.FieldShort(right.Score.Prev))
	}
	if !left.ClaimedRoot.Next.Equal(&right.ClaimedRoot.Prev) {
		return gameerrors.ErrFClaimedGap
	}
	return nil
}

// FoldStatements is the statement of the combined range: the endpoints of
// both segments and the sum of their moves.
func FoldStatements(left, right Statement) (Statement, error) {
	if err := CheckContinuity(left, right); err != nil {
		return Statement{}, err
	}
	return Statement{
		ScoresRoot:  left.ScoresRoot,
		ClaimedRoot: Span(left.ClaimedRoot, right.ClaimedRoot),
		Score:       Span(left.Score, right.Score),
		Location:    Span(left.Location, right.Location),
		Moves:       left.Moves + right.Moves,
	}, nil
}
