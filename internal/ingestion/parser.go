package ingestion

import (
	"strings"

	"github.com/guttosm/fxtrades/internal/domain/models"
)

const fieldSeparator = ","

// Parser converts raw lines into trade records.
type Parser interface {
	Parse(lines []string) []models.TradeRecord
}

// ParserFunc adapts a plain function to Parser.
type ParserFunc func(lines []string) []models.TradeRecord

func (f ParserFunc) Parse(lines []string) []models.TradeRecord { return f(lines) }

// LineParser splits each line on commas, drops the lines its Validator
// rejects and maps the rest, keeping input order.
type LineParser struct {
	validator Validator
	mapper    Mapper
}

func NewLineParser(validator Validator, mapper Mapper) *LineParser {
	return &LineParser{validator: validator, mapper: mapper}
}

// Parse never fails: rejected lines have already been reported by the validator.
// Empty input yields an empty, non-nil slice.
func (p *LineParser) Parse(lines []string) []models.TradeRecord {
	trades := make([]models.TradeRecord, 0, len(lines))
	for _, line := range lines {
		fields := strings.Split(line, fieldSeparator)
		if !p.validator.Validate(fields) {
			continue
		}
		trades = append(trades, p.mapper.Map(fields))
	}
	return trades
}
