// tuner/io_json.go
package tuner

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

const paramsLayoutTag = "kpp_kkp_pairs_v1"

// ErrShapeMismatch is returned when a saved table does not fit the target.
var ErrShapeMismatch = errors.New("parameter table shape mismatch")

type paramsJSON struct {
	Layout string       `json:"layout"`
	KPP    [][2]float64 `json:"kpp"`
	KKP    [][2]float64 `json:"kkp"`
}

// SaveParamsJSON writes p to path through a temporary file.
func SaveParamsJSON(path string, p *ParamTable) error {
	payload := paramsJSON{
		Layout: paramsLayoutTag,
		KPP:    loadPairs(p.KPP),
		KKP:    loadPairs(p.KKP),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode params: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadParamsJSON reads a table saved by SaveParamsJSON into p, which must
// already have the saved sizes.
func LoadParamsJSON(path string, p *ParamTable) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var in paramsJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if in.Layout != paramsLayoutTag {
		return fmt.Errorf("%s: unknown layout %q", path, in.Layout)
	}
	if len(in.KPP) != len(p.KPP) || len(in.KKP) != len(p.KKP) {
		return fmt.Errorf("%s: kpp %d/%d kkp %d/%d: %w",
			path, len(in.KPP), len(p.KPP), len(in.KKP), len(p.KKP), ErrShapeMismatch)
	}
	for i, v := range in.KPP {
		p.KPP[i].Store(v)
	}
	for i, v := range in.KKP {
		p.KKP[i].Store(v)
	}
	return nil
}

func loadPairs(src []AtomicPair) [][2]float64 {
	out := make([][2]float64, len(src))
	for i := range src {
		out[i] = src[i].Load()
	}
	return out
}
