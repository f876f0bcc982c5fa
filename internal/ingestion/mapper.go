package ingestion

import "github.com/guttosm/fxtrades/internal/domain/models"

// DefaultLotSize converts a raw trade amount into lots.
const DefaultLotSize = 100000.0

// Mapper turns validated fields into a trade record.
type Mapper interface {
	Map(fields []string) models.TradeRecord
}

// MapperFunc adapts a plain function to Mapper.
type MapperFunc func(fields []string) models.TradeRecord

func (f MapperFunc) Map(fields []string) models.TradeRecord { return f(fields) }

// LotMapper maps "CCYCCY,AMOUNT,PRICE" fields, dividing the amount by LotSize.
//
// Fields must have passed a Validator; Map does not re-check them and
// unparseable scalars come out as zero.
type LotMapper struct {
	LotSize float64
}

// NewLotMapper returns a mapper using lotSize, or DefaultLotSize when lotSize <= 0.
func NewLotMapper(lotSize float64) *LotMapper {
	if lotSize <= 0 {
		lotSize = DefaultLotSize
	}
	return &LotMapper{LotSize: lotSize}
}

func (m *LotMapper) Map(fields []string) models.TradeRecord {
	amount, _ := ParseInt(fields[1])
	price, _ := ParseFloat(fields[2])
	pair := []rune(fields[0])
	return models.TradeRecord{
		SourceCurrency:      string(pair[:currencySize]),
		DestinationCurrency: string(pair[currencySize:pairCodeSize]),
		Lots:                float64(amount) / m.LotSize,
		Price:               price,
	}
}
