package profit

import "fmt"

// FeeBasis decides what the fee formula is applied to.
type FeeBasis string

const (
	// FeeBasisSet applies the formula once to a segment's total revenue.
	FeeBasisSet FeeBasis = "set"
	// FeeBasisOrder applies the formula to every order and sums the results,
	// so the flat fee is charged per order.
	FeeBasisOrder FeeBasis = "order"
)

// FeeSchedule is a card-processing fee plus a platform fee, both grossed up
// by Surcharge.
type FeeSchedule struct {
	CardRate     float64  `json:"card_rate" yaml:"card_rate"`
	FlatFee      float64  `json:"flat_fee" yaml:"flat_fee"`
	PlatformRate float64  `json:"platform_rate" yaml:"platform_rate"`
	Surcharge    float64  `json:"surcharge" yaml:"surcharge"`
	Basis        FeeBasis `json:"basis" yaml:"basis"`
}

// DefaultFees is card 2.8% + 0.30, platform 2%, grossed up 10%.
func DefaultFees() FeeSchedule {
	return FeeSchedule{
		CardRate:     0.028,
		FlatFee:      0.30,
		PlatformRate: 0.02,
		Surcharge:    1.10,
		Basis:        FeeBasisSet,
	}
}

func (f FeeSchedule) Validate() error {
	if f.CardRate < 0 {
		return fmt.Errorf("invalid card rate: %.4f", f.CardRate)
	}
	if f.PlatformRate < 0 {
		return fmt.Errorf("invalid platform rate: %.4f", f.PlatformRate)
	}
	if f.FlatFee < 0 {
		return fmt.Errorf("invalid flat fee: %.2f", f.FlatFee)
	}
	if f.Surcharge <= 0 {
		return fmt.Errorf("invalid surcharge multiplier: %.2f", f.Surcharge)
	}
	switch f.Basis {
	case "", FeeBasisSet, FeeBasisOrder:
	default:
		return fmt.Errorf("invalid fee basis: %q", f.Basis)
	}
	return nil
}

// Fees applies the formula to revenue. Zero revenue carries no fees: an
// empty segment (or one whose orders total 0) is not charged the flat fee,
// although the formula itself would give FlatFee*Surcharge (0.33 with the
// defaults).
func (f FeeSchedule) Fees(revenue float64) float64 {
	if revenue == 0 {
		return 0
	}
	card := (revenue*f.CardRate + f.FlatFee) * f.Surcharge
	platform := (revenue * f.PlatformRate) * f.Surcharge
	return card + platform
}

// Revenue is a revenue figure in store currency, its conversion, and the fees
// and net derived from the converted value. All fields are rounded to cents.
type Revenue struct {
	Source       float64
	Converted    float64
	Fees         float64
	NetAfterFees float64
}

// CalculateRevenue converts source revenue with rate and applies fees.
func CalculateRevenue(source, rate float64, fees FeeSchedule) Revenue {
	converted := source * rate
	f := fees.Fees(converted)
	return Revenue{
		Source:       round2(source),
		Converted:    round2(converted),
		Fees:         round2(f),
		NetAfterFees: round2(converted - f),
	}
}

// orderRevenue takes the total once per order, falling back to the sum of
// price*quantity across the order's rows.
func orderRevenue(rows []Row) float64 {
	for _, r := range rows {
		if r.HasTotal {
			return r.Total
		}
	}
	sum := 0.0
	for _, r := range rows {
		if r.HasPrice && r.Quantity > 0 {
			sum += r.Price * float64(r.Quantity)
		}
	}
	return sum
}
