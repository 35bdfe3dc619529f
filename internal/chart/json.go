package chart

import (
	"io"
	"math"
	"strconv"

	json "github.com/goccy/go-json"
)

type wireDataset struct {
	Label string  `json:"label"`
	Data  []Value `json:"data"`
}

type wireAligned struct {
	Labels   []any         `json:"labels"`
	Datasets []wireDataset `json:"datasets"`
}

// MarshalJSON encodes a gap, NaN or infinity as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid || math.IsNaN(v.Float) || math.IsInf(v.Float, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v.Float, 'f', -1, 64), nil
}

// MarshalJSON encodes the dataset in the {labels, datasets} shape consumed
// by chart renderers.
func (a Aligned) MarshalJSON() ([]byte, error) {
	w := wireAligned{
		Labels:   a.Labels,
		Datasets: make([]wireDataset, len(a.Series)),
	}
	if w.Labels == nil {
		w.Labels = []any{}
	}
	for i, s := range a.Series {
		data := s.Values
		if data == nil {
			data = []Value{}
		}
		w.Datasets[i] = wireDataset{Label: s.Name, Data: data}
	}
	return json.Marshal(w)
}

// Encode writes a as indented JSON.
func Encode(out io.Writer, a Aligned) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}
