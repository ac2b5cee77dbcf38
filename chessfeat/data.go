// chessfeat/data.go
package chessfeat

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dylhunn/dragontoothmg"
	gm "github.com/Oliverans/GooseEngineMG/goosemg"

	"kpp-tuner/tuner"
)

// Backend picks the board library that turns a FEN into features.
type Backend int

const (
	Goose Backend = iota
	Dragontooth
)

// ParseBackend accepts "goose" or "dragontooth".
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(s) {
	case "goose", "goosemg":
		return Goose, nil
	case "dragontooth", "dragontoothmg":
		return Dragontooth, nil
	}
	return 0, fmt.Errorf("unknown board backend %q", s)
}

func parseLabel(s string) (float64, error) {
	switch s {
	case "1-0":
		return 1.0, nil
	case "0-1":
		return 0.0, nil
	case "1/2-1/2", "1/2", "0.5":
		return 0.5, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 0 || f > 1 {
			return 0, fmt.Errorf("label out of [0,1]: %v", f)
		}
		return f, nil
	}
	return 0, fmt.Errorf("cannot parse label: %q", s)
}

// FENToSample validates fen with goosemg and builds its features with the
// chosen backend. label is P(White wins).
func FENToSample(fen string, label float64, backend Backend) (tuner.Sample, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return tuner.Sample{}, fmt.Errorf("bad FEN: %q", fen)
	}
	gb, err := gm.ParseFEN(fen)
	if err != nil {
		return tuner.Sample{}, fmt.Errorf("bad FEN %q: %w", fen, err)
	}
	s := tuner.Sample{Label: label}
	if parts[1] == "w" {
		s.STM = 1
	}

	var pos *Position
	switch backend {
	case Dragontooth:
		db := dragontoothmg.ParseFen(fen)
		pos, err = FromDragontooth(&db)
	default:
		pos, err = FromGoose(gb)
	}
	if err != nil {
		return tuner.Sample{}, fmt.Errorf("FEN %q: %w", fen, err)
	}
	s.Pos = pos
	return s, nil
}

// LoadDataset reads "<FEN>\t<label>" rows (or CSV with isCSV). Rows that do
// not parse are skipped. maxRows > 0 caps the number of samples.
func LoadDataset(path string, isCSV bool, maxRows int, backend Backend) ([]tuner.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDataset(f, isCSV, maxRows, backend)
}

// ReadDataset is LoadDataset over an open reader.
func ReadDataset(rd io.Reader, isCSV bool, maxRows int, backend Backend) ([]tuner.Sample, error) {
	r := csv.NewReader(bufio.NewReader(rd))
	r.Comma = '\t'
	if isCSV {
		r.Comma = ','
	}
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var out []tuner.Sample
	line := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read error line %d: %w", line, err)
		}
		line++
		fen, lab, ok := splitRecord(rec)
		if !ok {
			continue
		}
		y, err := parseLabel(lab)
		if err != nil {
			continue
		}
		s, err := FENToSample(fen, y, backend)
		if err != nil {
			continue
		}
		out = append(out, s)
		if maxRows > 0 && len(out) >= maxRows {
			break
		}
	}
	return out, nil
}

// splitRecord accepts two fields, or one field like "<FEN> [0.5]".
func splitRecord(rec []string) (fen, lab string, ok bool) {
	if len(rec) >= 2 {
		return strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1]), true
	}
	if len(rec) != 1 {
		return "", "", false
	}
	raw := strings.TrimSpace(rec[0])
	li := strings.LastIndex(raw, "[")
	rj := strings.LastIndex(raw, "]")
	if li >= 0 && rj > li {
		return strings.TrimSpace(raw[:li]), strings.TrimSpace(raw[li+1 : rj]), true
	}
	parts := strings.Fields(raw)
	if len(parts) >= 7 {
		return strings.Join(parts[:6], " "), parts[len(parts)-1], true
	}
	return "", "", false
}
