package types

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/colorfulnotion/treasure/common"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// PrevNext is a value before and after the range a proof covers.
type PrevNext struct {
	Prev fr.Element
	Next fr.Element
}

// PrevNextFrom starts a range where nothing has happened yet.
func PrevNextFrom(v fr.Element) PrevNext {
	return PrevNext{Prev: v, Next: v}
}

// Update moves the window one step: the old next becomes prev.
func (p PrevNext) Update(fn func(prev fr.Element) fr.Element) PrevNext {
	return PrevNext{Prev: p.Next, Next: fn(p.Next)}
}

// Span joins two adjacent ranges, hiding the interior.
func Span(first, second PrevNext) PrevNext {
	return PrevNext{Prev: first.Prev, Next: second.Next}
}

func (p PrevNext) Equal(o PrevNext) bool {
	return p.Prev.Equal(&o.Prev) && p.Next.Equal(&o.Next)
}

func (p PrevNext) String() string {
	return fmt.Sprintf("%s->%s", common.FieldShort(p.Prev), common.FieldShort(p.Next))
}

type prevNextJSON struct {
	Prev common.Field `json:"prev"`
	Next common.Field `json:"next"`
}

func (p PrevNext) MarshalJSON() ([]byte, error) {
	return json.Marshal(prevNextJSON{Prev: common.Field(p.Prev), Next: common.Field(p.Next)})
}

func (p *PrevNext) UnmarshalJSON(data []byte) error {
	var raw prevNextJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Prev, p.Next = raw.Prev.Element(), raw.Next.Element()
	return nil
}

// Statement is the public output every proof carries.
type Statement struct {
	ScoresRoot  fr.Element
	ClaimedRoot PrevNext
	Score       PrevNext
	Location    PrevNext
	Moves       uint64
}

// StatementBytes is the size of Encode's output.
const StatementBytes = 7*common.FieldBytes + 8

// Encode is the canonical byte form used for seals and digests.
func (s Statement) Encode() []byte {
	out := make([]byte, 0, StatementBytes)
	for _, e := range s.Fields() {
		b := e.Bytes()
		out = append(out, b[:]...)
	}
	return binary.BigEndian.AppendUint64(out, s.Moves)
}

// Fields lists the seven field-valued entries in circuit order.
func (s Statement) Fields() []fr.Element {
	return []fr.Element{
		s.ScoresRoot,
		s.ClaimedRoot.Prev, s.ClaimedRoot.Next,
		s.Score.Prev, s.Score.Next,
		s.Location.Prev, s.Location.Next,
	}
}

func (s Statement) Digest() common.Hash {
	return common.Blake2Hash(s.Encode())
}

func (s Statement) Equal(o Statement) bool {
	return s.ScoresRoot.Equal(&o.ScoresRoot) &&
		s.ClaimedRoot.Equal(o.ClaimedRoot) &&
		s.Score.Equal(o.Score) &&
		s.Location.Equal(o.Location) &&
		s.Moves == o.Moves
}

// StartsAtOrigin is the precondition the leaderboard puts on submitted runs.
func (s Statement) StartsAtOrigin() bool {
	return s.Score.Prev.IsZero() && s.Location.Prev.IsZero()
}

func (s Statement) String() string {
	return fmt.Sprintf("moves=%d location=%s score=%s claimed=%s",
		s.Moves, s.Location, s.Score, s.ClaimedRoot)
}

type statementJSON struct {
	ScoresRoot  common.Field `json:"scores_root"`
	ClaimedRoot PrevNext     `json:"claimed_root"`
	Score       PrevNext     `json:"score"`
	Location    PrevNext     `json:"location"`
	Moves       uint64       `json:"moves"`
}

func (s Statement) MarshalJSON() ([]byte, error) {
	return json.Marshal(statementJSON{
		ScoresRoot:  common.Field(s.ScoresRoot),
		ClaimedRoot: s.ClaimedRoot,
		Score:       s.Score,
		Location:    s.Location,
		Moves:       s.Moves,
	})
}

func (s *Statement) UnmarshalJSON(data []byte) error {
	var raw statementJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Statement{
		ScoresRoot:  raw.ScoresRoot.Element(),
		ClaimedRoot: raw.ClaimedRoot,
		Score:       raw.Score,
		Location:    raw.Location,
		Moves:       raw.Moves,
	}
	return nil
}
