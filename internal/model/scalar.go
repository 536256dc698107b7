package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Text is a free-form string field. Numbers and booleans are accepted and
// stored as their string form, so {"phone":5550100} reads as "5550100".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}

	switch x := v.(type) {
	case nil:
		return nil
	case string:
		*t = Text(x)
	case json.Number:
		if !strings.ContainsAny(x.String(), ".eE") {
			*t = Text(x.String())
			return nil
		}
		f, err := x.Float64()
		if err != nil {
			return fmt.Errorf("cast to string failed for value %s", x)
		}
		*t = Text(strconv.FormatFloat(f, 'f', -1, 64))
	case bool:
		*t = Text(strconv.FormatBool(x))
	default:
		return fmt.Errorf("cast to string failed for value %s", b)
	}
	return nil
}

// Texts converts plain strings, mostly for building documents in code.
func Texts(values ...string) []Text {
	out := make([]Text, len(values))
	for i, v := range values {
		out[i] = Text(v)
	}
	return out
}

// Number is a numeric field. Quoted numbers and booleans are converted; an
// empty string leaves the value unset.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		*n = Number(x)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("cast to number failed for value %q", x)
		}
		*n = Number(f)
	case bool:
		if x {
			*n = 1
		} else {
			*n = 0
		}
	default:
		return fmt.Errorf("cast to number failed for value %s", b)
	}
	return nil
}
