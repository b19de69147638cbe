// Package contract is the on-chain consumer of root proofs, run locally: it
// accepts a proof only if it verifies and starts from the origin with no
// score, then keeps the best scores.
package contract

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/colorfulnotion/treasure/common"
	"github.com/colorfulnotion/treasure/gameerrors"
	"github.com/colorfulnotion/treasure/log"
	"github.com/colorfulnotion/treasure/prover"
	"github.com/colorfulnotion/treasure/storage"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/holiman/uint256"
	"github.com/syndtr/goleveldb/leveldb"
)

var (
	keyHighScore = []byte("lb/high")
	keyHolder    = []byte("lb/holder")
	keySeq       = []byte("lb/seq")
	prefixPlayer = []byte("lb/player/")
	prefixEvent  = []byte("lb/event/")
	prefixProof  = []byte("lb/proof/")
)

const EventSubmitScore = "submit-score"

type SubmitScoreEvent struct {
	Seq          uint64       `json:"seq"`
	Name         string       `json:"event"`
	Player       string       `json:"player"`
	Score        *uint256.Int `json:"score"`
	Moves        uint64       `json:"moves"`
	Digest       common.Hash  `json:"statement_digest"`
	NewHighScore bool         `json:"new_high_score"`
}

func (e *SubmitScoreEvent) String() string {
	return fmt.Sprintf("#%d %s player=%s score=%s moves=%d digest=%s high=%v",
		e.Seq, e.Name, e.Player, e.Score.Dec(), e.Moves, e.Digest.String_short(), e.NewHighScore)
}

// Config pins the leaderboard to one treasure map. A nil MapRoot accepts
// proofs over any map.
type Config struct {
	MapRoot *fr.Element
}

type Standing struct {
	Player string
	Score  *uint256.Int
}

type Leaderboard struct {
	mu       sync.Mutex
	store    *storage.PersistenceStore
	verifier prover.Backend
	cfg      Config
}

func New(store *storage.PersistenceStore, verifier prover.Backend, cfg Config) *Leaderboard {
	return &Leaderboard{store: store, verifier: verifier, cfg: cfg}
}

func toUint256(e fr.Element) *uint256.Int {
	b := e.Bytes()
	return new(uint256.Int).SetBytes32(b[:])
}

func (lb *Leaderboard) readScore(key []byte) (*uint256.Int, bool, error) {
	data, ok, err := lb.store.Get(key)
	if err != nil || !ok {
		return new(uint256.Int), false, err
	}
	return new(uint256.Int).SetBytes(data), true, nil
}

func scoreBytes(v *uint256.Int) []byte {
	b := v.Bytes32()
	return b[:]
}

func eventKey(seq uint64) []byte {
	return binary.BigEndian.AppendUint64(append([]byte(nil), prefixEvent...), seq)
}

// SubmitScore checks a root proof and records its score. Rejections keep
// "the proof is bad" (C1, C4) apart from "the proof starts in the wrong
// place" (C2, C3).
func (lb *Leaderboard) SubmitScore(player string, proof prover.Provable) (*SubmitScoreEvent, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return nil, gameerrors.ErrCEmptyPlayer
	}
	if proof == nil {
		return nil, fmt.Errorf("%w: no proof", gameerrors.ErrCInvalidProof)
	}
	if err := proof.Verify(lb.verifier); err != nil {
		log.Warn(log.ContractMonitoring, "submit rejected", "player", player, "err", err)
		return nil, fmt.Errorf("%w: %w", gameerrors.ErrCInvalidProof, err)
	}
	stmt := proof.Statement()
	if lb.cfg.MapRoot != nil && !stmt.ScoresRoot.Equal(lb.cfg.MapRoot) {
		return nil, fmt.Errorf("%w: proof map %s", gameerrors.ErrCWrongMap, common.FieldShort(stmt.ScoresRoot))
	}
	if !stmt.Score.Prev.IsZero() {
		return nil, fmt.Errorf("%w: starts at %s", gameerrors.ErrCBadStartScore, common.FieldShort(stmt.Score.Prev))
	}
	if !stmt.Location.Prev.IsZero() {
		return nil, fmt.Errorf("%w: starts at %s", gameerrors.ErrCBadStartLocation, common.FieldShort(stmt.Location.Prev))
	}

	lb.mu.Lock()
	defer lb.mu.Unlock()

	score := toUint256(stmt.Score.Next)
	high, _, err := lb.readScore(keyHighScore)
	if err != nil {
		return nil, err
	}
	playerKey := append(append([]byte(nil), prefixPlayer...), player...)
	best, _, err := lb.readScore(playerKey)
	if err != nil {
		return nil, err
	}
	seq := uint64(0)
	if data, ok, err := lb.store.Get(keySeq); err != nil {
		return nil, err
	} else if ok {
		seq = binary.BigEndian.Uint64(data)
	}

	ev := &SubmitScoreEvent{
		Seq:          seq,
		Name:         EventSubmitScore,
		Player:       player,
		Score:        score,
		Moves:        stmt.Moves,
		Digest:       stmt.Digest(),
		NewHighScore: score.Gt(high),
	}
	evData, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	proofData, err := prover.MarshalProof(proof)
	if err != nil {
		return nil, err
	}

	pairs := [][2][]byte{
		{eventKey(seq), evData},
		{keySeq, binary.BigEndian.AppendUint64(nil, seq+1)},
		{storage.HashKey(prefixProof, ev.Digest), proofData},
	}
	if score.Gt(best) {
		pairs = append(pairs, [2][]byte{playerKey, scoreBytes(score)})
	}
	if ev.NewHighScore {
		pairs = append(pairs,
			[2][]byte{keyHighScore, scoreBytes(score)},
			[2][]byte{keyHolder, []byte(player)})
	}
	if err := lb.store.WriteBatch(pairs); err != nil {
		return nil, err
	}
	log.Info(log.ContractMonitoring, "score submitted", "player", player, "score", score.Dec(),
		"moves", stmt.Moves, "high", ev.NewHighScore)
	return ev, nil
}

// SubmitSignedScore credits the address that signed the proof's root
// statement digest instead of a free-form name, so a copied proof cannot be
// claimed by someone else.
func (lb *Leaderboard) SubmitSignedScore(signature []byte, proof prover.Provable) (*SubmitScoreEvent, error) {
	if proof == nil {
		return nil, fmt.Errorf("%w: no proof", gameerrors.ErrCInvalidProof)
	}
	addr, err := common.RecoverSigner(proof.Statement().Digest(), signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gameerrors.ErrCBadSignature, err)
	}
	return lb.SubmitScore(addr.Hex(), proof)
}

// HighScore returns the best score seen and who set it; zero and "" when
// nothing was submitted.
func (lb *Leaderboard) HighScore() (*uint256.Int, string, error) {
	high, ok, err := lb.readScore(keyHighScore)
	if err != nil || !ok {
		return high, "", err
	}
	holder, _, err := lb.store.Get(keyHolder)
	if err != nil {
		return nil, "", err
	}
	return high, string(holder), nil
}

func (lb *Leaderboard) PlayerScore(player string) (*uint256.Int, bool, error) {
	return lb.readScore(append(append([]byte(nil), prefixPlayer...), player...))
}

// Standings lists every player's best score, highest first.
func (lb *Leaderboard) Standings() ([]Standing, error) {
	pairs, err := lb.store.GetWithPrefix(prefixPlayer)
	if err != nil {
		return nil, err
	}
	out := make([]Standing, 0, len(pairs))
	for _, kv := range pairs {
		out = append(out, Standing{
			Player: string(kv[0][len(prefixPlayer):]),
			Score:  new(uint256.Int).SetBytes(kv[1]),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score.Gt(out[j].Score) })
	return out, nil
}

// Events returns every accepted submission in order.
func (lb *Leaderboard) Events() ([]*SubmitScoreEvent, error) {
	pairs, err := lb.store.GetWithPrefix(prefixEvent)
	if err != nil {
		return nil, err
	}
	out := make([]*SubmitScoreEvent, 0, len(pairs))
	for _, kv := range pairs {
		var ev SubmitScoreEvent
		if err := json.Unmarshal(kv[1], &ev); err != nil {
			return nil, fmt.Errorf("event %x: %w", kv[0], err)
		}
		out = append(out, &ev)
	}
	return out, nil
}

// Proof returns the archived proof for a submitted statement digest.
// Proofs are stored under the bare digest.
func (lb *Leaderboard) Proof(digest common.Hash) (prover.Provable, bool, error) {
	data, err := lb.store.GetHash(prefixProof, digest)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	p, err := prover.UnmarshalProof(data)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}
