package ingestion

import (
	"fmt"
	"unicode/utf8"

	"github.com/guttosm/fxtrades/internal/logger"
)

const (
	fieldCount   = 3
	pairCodeSize = 6
	currencySize = 3
)

// Validator decides whether the fields of one line can be mapped to a trade.
type Validator interface {
	Validate(fields []string) bool
}

// ValidatorFunc adapts a plain function to Validator.
type ValidatorFunc func(fields []string) bool

func (f ValidatorFunc) Validate(fields []string) bool { return f(fields) }

// FieldValidator checks the structure of a split trade line.
//
// Rules, in order (the first failing rule logs one warning and rejects the line):
//  1. exactly 3 fields
//  2. 6-character pair code in field 1
//  3. integer amount in field 2
//  4. decimal price in field 3
type FieldValidator struct {
	log logger.Logger
}

// NewFieldValidator returns a validator reporting rejections to log.
// A nil log falls back to the global logger.
func NewFieldValidator(log logger.Logger) *FieldValidator {
	if log == nil {
		log = logger.Default()
	}
	return &FieldValidator{log: log}
}

func (v *FieldValidator) Validate(fields []string) bool {
	if len(fields) != fieldCount {
		v.log.Warning(fmt.Sprintf("Line malformed. Only %d field(s) found.", len(fields)))
		return false
	}
	if utf8.RuneCountInString(fields[0]) != pairCodeSize {
		v.log.Warning(fmt.Sprintf("Trade currency malformed: '%s'", fields[0]))
		return false
	}
	if _, ok := ParseInt(fields[1]); !ok {
		v.log.Warning(fmt.Sprintf("Trade amount not a valid integer: '%s'", fields[1]))
		return false
	}
	if _, ok := ParseFloat(fields[2]); !ok {
		v.log.Warning(fmt.Sprintf("Trade price not a valid decimal: '%s'", fields[2]))
		return false
	}
	return true
}
