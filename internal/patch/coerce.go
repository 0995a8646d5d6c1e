package patch

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// decimalPlaces is the fixed precision decimal fields are stored at.
const decimalPlaces = 4

// Coerce normalizes a raw request value for a field kind. nil and the
// empty string always become nil (SQL NULL). Numeric kinds strip
// non-numeric characters before parsing and yield NULL on failure,
// never zero and never an error.
func Coerce(kind Kind, value any) any {
	if value == nil {
		return nil
	}

	switch kind {
	case Integer:
		return coerceInteger(value)
	case Decimal:
		return coerceDecimal(value)
	case Date:
		return coerceDate(value)
	case Flag:
		return coerceFlag(value)
	default:
		return coerceString(value)
	}
}

func coerceString(value any) any {
	s := strings.TrimSpace(stringify(value))
	if s == "" {
		return nil
	}
	return s
}

func coerceInteger(value any) any {
	switch v := value.(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	}
	s := stripNumeric(stringify(value), false)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return n
}

func coerceDecimal(value any) any {
	switch v := value.(type) {
	case float64:
		return roundDecimal(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	s := stripNumeric(stringify(value), true)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return roundDecimal(f)
}

func coerceDate(value any) any {
	if t, ok := value.(time.Time); ok {
		return t
	}
	s := strings.TrimSpace(stringify(value))
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return nil
}

func coerceFlag(value any) any {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	}
	switch strings.ToLower(strings.TrimSpace(stringify(value))) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return nil
}

func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

// stripNumeric keeps digits, an optional leading minus sign and, when
// allowDot is set, the first decimal point. "12.5abc" becomes "12.5".
func stripNumeric(s string, allowDot bool) string {
	var b strings.Builder
	seenDot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		case r == '.' && allowDot && !seenDot:
			b.WriteRune(r)
			seenDot = true
		}
	}
	return b.String()
}

func roundDecimal(f float64) float64 {
	pow := math.Pow10(decimalPlaces)
	return math.Round(f*pow) / pow
}
