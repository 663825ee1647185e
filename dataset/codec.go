package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const maxLineSize = 16 * 1024 * 1024

// ParseError reports a malformed line in a persisted dataset.
type ParseError struct {
	Line  int // 1-based
	Field int // 0 is the identifier
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d field %d: invalid value %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	errEmptyField = errors.New("empty field")
	errNonFinite  = errors.New("coordinate is not finite")
)

// Decode reads records until EOF. Blank lines are skipped. Decoded records
// are unassigned. The first malformed line stops decoding with a *ParseError.
func Decode(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []Record
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		rec, err := decodeLine(line, text)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func decodeLine(line int, text string) (Record, error) {
	fields := strings.Split(text, ",")
	// Encode terminates every field with a comma.
	if len(fields) > 1 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}

	id := fields[0]
	if id == "" {
		return Record{}, &ParseError{Line: line, Field: 0, Value: id, Err: errEmptyField}
	}

	coords := make([]float64, 0, len(fields)-1)
	for i, f := range fields[1:] {
		f = strings.TrimSpace(f)
		if f == "" {
			return Record{}, &ParseError{Line: line, Field: i + 1, Value: f, Err: errEmptyField}
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Record{}, &ParseError{Line: line, Field: i + 1, Value: f, Err: err}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Record{}, &ParseError{Line: line, Field: i + 1, Value: f, Err: errNonFinite}
		}
		coords = append(coords, v)
	}

	rec := NewRecord(id, nil)
	rec.Coords = coords
	return rec, nil
}

// Encode writes records in order, skipping repeated identifiers.
// It returns the number of records written.
func Encode(w io.Writer, records []Record) (int, error) {
	bw := bufio.NewWriter(w)
	unique := Dedupe(records)

	buf := make([]byte, 0, 256)
	for _, r := range unique {
		buf = buf[:0]
		buf = append(buf, r.ID...)
		buf = append(buf, ',')
		for _, c := range r.Coords {
			buf = strconv.AppendFloat(buf, c, 'g', -1, 64)
			buf = append(buf, ',')
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return 0, err
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, err
	}
	return len(unique), nil
}
