package types

import (
	"encoding/json"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// DiffStatements renders the fields that differ between want and got as an
// ASCII JSON diff. The bool is false when they match.
func DiffStatements(want, got Statement, coloring bool) (string, bool, error) {
	left, err := json.Marshal(want)
	if err != nil {
		return "", false, err
	}
	right, err := json.Marshal(got)
	if err != nil {
		return "", false, err
	}
	delta, err := gojsondiff.New().Compare(left, right)
	if err != nil {
		return "", false, err
	}
	if !delta.Modified() {
		return "", false, nil
	}
	var leftObj map[string]interface{}
	if err := json.Unmarshal(left, &leftObj); err != nil {
		return "", true, err
	}
	out, err := formatter.NewAsciiFormatter(leftObj, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       coloring,
	}).Format(delta)
	return out, true, err
}
