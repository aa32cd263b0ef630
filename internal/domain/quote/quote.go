package quote

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is one repair estimate: the header plus the part and labor lines it
// owns. Totals are derived, never taken from storage at face value on write.
type Quote struct {
	ID           int64
	ClientName   string
	Phone        string
	Description  string
	VehicleMake  string
	VehicleModel string
	VehiclePlate string
	VehicleYear  string
	PaymentTerms string

	PartsTotal float64
	LaborTotal float64
	Total      float64

	CreatedAt time.Time

	Parts []PartLine
	Labor []LaborLine
}

// PartLine is a priced parts/materials row (item/peça).
type PartLine struct {
	ID          int64
	Qty         float64
	Description string
	UnitPrice   float64
	Subtotal    float64
}

// LaborLine is a priced labor row (serviço/mão de obra).
type LaborLine struct {
	ID          int64
	Description string
	Value       float64
}

// Summary is the listing projection of a quote.
type Summary struct {
	ID          int64
	ClientName  string
	Description string
	Total       float64
	CreatedAt   time.Time
}

// Draft is the caller-supplied input for create and update.
type Draft struct {
	ClientName   string
	Phone        string
	Description  string
	VehicleMake  string
	VehicleModel string
	VehiclePlate string
	VehicleYear  string
	PaymentTerms string

	// FlatTotal is used verbatim when both Parts and Labor are empty
	// (simple quote without line items).
	FlatTotal float64

	Parts []PartDraft
	Labor []LaborDraft
}

type PartDraft struct {
	Qty         float64
	Description string
	UnitPrice   float64

	// Subtotal, when set, is trusted instead of Qty × UnitPrice.
	Subtotal *float64
}

type LaborDraft struct {
	Description string
	Value       float64
}

// build normalizes the draft and computes totals. Every monetary amount is
// rounded to 2 decimal places before it is summed into the next total, so
// identical inputs always reproduce identical totals regardless of how many
// lines accumulate.
func (d Draft) build() *Quote {
	q := &Quote{
		ClientName:   d.ClientName,
		Phone:        d.Phone,
		Description:  d.Description,
		VehicleMake:  d.VehicleMake,
		VehicleModel: d.VehicleModel,
		VehiclePlate: d.VehiclePlate,
		VehicleYear:  d.VehicleYear,
		PaymentTerms: d.PaymentTerms,
	}

	if len(d.Parts) == 0 && len(d.Labor) == 0 {
		q.Total = round2(d.FlatTotal)
		return q
	}

	partsTotal := decimal.Zero
	for _, p := range d.Parts {
		qty := p.Qty
		if qty == 0 {
			qty = 1
		}
		sub := decimal.NewFromFloat(qty).
			Mul(decimal.NewFromFloat(p.UnitPrice)).
			Round(2)
		if p.Subtotal != nil {
			sub = decimal.NewFromFloat(*p.Subtotal).Round(2)
		}
		q.Parts = append(q.Parts, PartLine{
			Qty:         qty,
			Description: p.Description,
			UnitPrice:   p.UnitPrice,
			Subtotal:    toFloat(sub),
		})
		partsTotal = partsTotal.Add(sub)
	}

	laborTotal := decimal.Zero
	for _, l := range d.Labor {
		v := decimal.NewFromFloat(l.Value).Round(2)
		q.Labor = append(q.Labor, LaborLine{
			Description: l.Description,
			Value:       toFloat(v),
		})
		laborTotal = laborTotal.Add(v)
	}

	partsTotal = partsTotal.Round(2)
	laborTotal = laborTotal.Round(2)

	q.PartsTotal = toFloat(partsTotal)
	q.LaborTotal = toFloat(laborTotal)
	q.Total = toFloat(partsTotal.Add(laborTotal).Round(2))
	return q
}

func round2(v float64) float64 {
	return toFloat(decimal.NewFromFloat(v).Round(2))
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
