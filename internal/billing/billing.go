package billing

import "fmt"

// Statement prices an energy total against a per-kWh tariff. All arithmetic
// is exact decimal, so repeated statements never drift.
type Statement struct {
	EnergyWh     Decimal
	TariffPerKWh Decimal
	Cost         Decimal
}

// NewStatement builds a statement for totalWh at the given tariff, expressed
// as a decimal string per kWh (e.g. "0.85").
func NewStatement(totalWh float64, tariffPerKWh string) (Statement, error) {
	tariff, err := NewDecimal(tariffPerKWh)
	if err != nil {
		return Statement{}, fmt.Errorf("invalid tariff: %w", err)
	}
	if tariff.Cmp(NewDecimalFromInt64(0)) < 0 {
		return Statement{}, fmt.Errorf("tariff must be non-negative, got %s", tariffPerKWh)
	}

	energy := NewDecimalFromFloat(totalWh)
	cost := energy.Div(NewDecimalFromInt64(1000)).Mul(tariff)

	return Statement{
		EnergyWh:     energy,
		TariffPerKWh: tariff,
		Cost:         cost,
	}, nil
}

// FormatWh renders a watt-hour total with the given number of decimal places,
// rounding half up. FormatWh(2.5, 1) == "2.5", FormatWh(0, 1) == "0.0".
func FormatWh(totalWh float64, places int32) string {
	return NewDecimalFromFloat(totalWh).Round(places).String()
}
