package circuit

import (
	"fmt"
	"testing"

	"github.com/colorfulnotion/treasure/common"
	"github.com/colorfulnotion/treasure/statedb"
	"github.com/colorfulnotion/treasure/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// denseMap puts treasure on every cell except the origin, so nearly every
// first visit scores and every revisit must not.
func denseMap(cfg types.GameConfig) map[uint64]uint64 {
	m := make(map[uint64]uint64, cfg.Cells())
	for cell := uint64(1); cell < cfg.Cells(); cell++ {
		m[cell] = cell%7 + 1
	}
	return m
}

func TestRandomWalksScoreFirstVisits(t *testing.T) {
	cfg, err := types.NewGameConfig(5)
	require.NoError(t, err)
	treasure := denseMap(cfg)

	cases := []struct {
		seed  uint64
		moves int
	}{
		{1, 1}, {2, 7}, {3, 20}, {4, 40}, {5, 64}, {6, 100}, {42, 33}, {1234, 80},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("seed %d, %d moves", tc.seed, tc.moves), func(t *testing.T) {
			ops, err := types.RandomPath(cfg, 0, tc.moves, tc.seed)
			require.NoError(t, err)
			states, ws, err := statedb.Replay(cfg, treasure, ops)
			require.NoError(t, err)
			require.Len(t, states, tc.moves)

			visited := map[uint64]bool{}
			cur, want := uint64(0), uint64(0)
			for i, op := range ops {
				next, err := cfg.Step(cur, op)
				require.NoError(t, err)
				cur = next
				if !visited[cur] {
					visited[cur] = true
					want += treasure[cur]
				}

				stmt := states[i].Statement
				loc, ok := common.FieldToUint64(stmt.Location.Next)
				require.True(t, ok)
				assert.True(t, cfg.InGrid(loc), "step %d at %d", i, loc)
				assert.Equal(t, cur, loc, "step %d", i)
				score, ok := common.FieldToUint64(stmt.Score.Next)
				require.True(t, ok)
				assert.Equal(t, want, score, "step %d", i)
				require.NoError(t, Play(cfg, stmt, ws[i]), "step %d", i)
			}

			folded := states[0]
			for _, s := range states[1:] {
				folded, err = folded.Fold(s)
				require.NoError(t, err)
			}
			final := folded.Statement
			assert.True(t, final.StartsAtOrigin())
			assert.Equal(t, uint64(tc.moves), final.Moves)
			score, _ := common.FieldToUint64(final.Score.Next)
			assert.Equal(t, want, score)
		})
	}
}
