package prover

import (
	"encoding/json"
	"fmt"

	"github.com/colorfulnotion/treasure/common"
	"github.com/colorfulnotion/treasure/gameerrors"
	"github.com/colorfulnotion/treasure/types"
)

type proofJSON struct {
	Kind      string          `json:"kind"`
	Statement types.Statement `json:"statement"`
	Seal      string          `json:"seal"`
	Left      *proofJSON      `json:"left,omitempty"`
	Right     *proofJSON      `json:"right,omitempty"`
}

// Envelope is the file format written by the CLI: the proof tree plus the
// backend that produced it and the grid it was proved on.
type Envelope struct {
	Backend string           `json:"backend"`
	Config  types.GameConfig `json:"config"`
	Proof   json.RawMessage  `json:"proof"`
}

func toJSON(p Provable) (*proofJSON, error) {
	out := &proofJSON{
		Kind:      p.Kind().String(),
		Statement: p.Statement(),
		Seal:      common.Bytes2Hex(p.Seal()),
	}
	switch v := p.(type) {
	case *LeafProof:
	case *FoldProof:
		var err error
		if out.Left, err = toJSON(v.Left); err != nil {
			return nil, err
		}
		if out.Right, err = toJSON(v.Right); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("marshal proof: unsupported type %T", p)
	}
	return out, nil
}

func fromJSON(j *proofJSON) (Provable, error) {
	if j == nil {
		return nil, fmt.Errorf("%w: missing proof node", gameerrors.ErrIMalformedProof)
	}
	seal, err := common.Hex2Bytes(j.Seal)
	if err != nil {
		return nil, fmt.Errorf("%w: seal: %v", gameerrors.ErrIMalformedProof, err)
	}
	switch j.Kind {
	case LeafKind.String():
		if j.Left != nil || j.Right != nil {
			return nil, fmt.Errorf("%w: leaf with children", gameerrors.ErrIMalformedProof)
		}
		return &LeafProof{Stmt: j.Statement, Proof: seal}, nil
	case FoldKind.String():
		left, err := fromJSON(j.Left)
		if err != nil {
			return nil, err
		}
		right, err := fromJSON(j.Right)
		if err != nil {
			return nil, err
		}
		return &FoldProof{Stmt: j.Statement, Left: left, Right: right, Proof: seal}, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", gameerrors.ErrIMalformedProof, j.Kind)
}

func MarshalProof(p Provable) ([]byte, error) {
	j, err := toJSON(p)
	if err != nil {
		return nil, err
	}
	return json.Marshal(j)
}

func UnmarshalProof(data []byte) (Provable, error) {
	var j proofJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("%w: %v", gameerrors.ErrIMalformedProof, err)
	}
	return fromJSON(&j)
}

func MarshalEnvelope(backend string, cfg types.GameConfig, p Provable) ([]byte, error) {
	raw, err := MarshalProof(p)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(Envelope{Backend: backend, Config: cfg, Proof: raw}, "", "  ")
}

// Check rejects an envelope made for another backend or grid than the
// verifier's own setup.
func (env *Envelope) Check(backend string, cfg types.GameConfig) error {
	if env.Backend != backend {
		return fmt.Errorf("%w: proof backend %q, verifier %q", gameerrors.ErrIEnvelopeMismatch, env.Backend, backend)
	}
	if env.Config != cfg {
		return fmt.Errorf("%w: proof grid %s, verifier %s", gameerrors.ErrIEnvelopeMismatch, env.Config, cfg)
	}
	return nil
}

func UnmarshalEnvelope(data []byte) (*Envelope, Provable, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", gameerrors.ErrIMalformedProof, err)
	}
	p, err := UnmarshalProof(env.Proof)
	if err != nil {
		return nil, nil, err
	}
	return &env, p, nil
}
