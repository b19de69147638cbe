package treasuremaps

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/colorfulnotion/treasure/gameerrors"
	"github.com/colorfulnotion/treasure/statedb"
	"github.com/colorfulnotion/treasure/types"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

//go:embed *.json
var mapFS embed.FS

var mapFile = map[string]string{
	"demo": "demo.json", // the three-cell row used in the walkthroughs
	"loop": "loop.json", // demo plus cell 51, reached by going down
}

// TreasureMap is the public cell -> value assignment the game is scored on.
type TreasureMap struct {
	ID       string            `json:"id,omitempty"`
	GridSize uint64            `json:"grid_size"`
	Treasure map[uint64]uint64 `json:"treasure"`
}

// ReadMap loads a built-in map by name, otherwise treats id as a file path.
func ReadMap(id string) (*TreasureMap, error) {
	var data []byte
	var err error
	if path, ok := mapFile[id]; ok {
		data, err = mapFS.ReadFile(path)
	} else {
		data, err = os.ReadFile(id)
	}
	if err != nil {
		return nil, err
	}
	var m TreasureMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("treasure map %s: %w", id, err)
	}
	if m.ID == "" {
		m.ID = id
	}
	if m.GridSize == 0 {
		m.GridSize = types.DefaultGridSize
	}
	if _, err := m.Config(); err != nil {
		return nil, fmt.Errorf("treasure map %s: %w", id, err)
	}
	return &m, nil
}

// Names lists the built-in maps.
func Names() []string {
	names := make([]string, 0, len(mapFile))
	for name := range mapFile {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config returns the grid the map is defined on, rejecting cells off it.
func (m *TreasureMap) Config() (types.GameConfig, error) {
	cfg, err := types.NewGameConfig(m.GridSize)
	if err != nil {
		return cfg, err
	}
	for cell := range m.Treasure {
		if !cfg.InGrid(cell) {
			return cfg, fmt.Errorf("%w: cell %d on a %dx%d grid", gameerrors.ErrKeyOutOfRange, cell, m.GridSize, m.GridSize)
		}
	}
	return cfg, nil
}

// Root is the scores root every proof over this map commits to.
func (m *TreasureMap) Root() (fr.Element, error) {
	cfg, err := m.Config()
	if err != nil {
		return fr.Element{}, err
	}
	s, err := statedb.Initial(cfg, m.Treasure)
	if err != nil {
		return fr.Element{}, err
	}
	return s.ScoresRoot, nil
}

// Total is the score for visiting every treasure cell once.
func (m *TreasureMap) Total() uint64 {
	var sum uint64
	for _, v := range m.Treasure {
		sum += v
	}
	return sum
}
