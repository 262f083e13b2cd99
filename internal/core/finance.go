package core

import "github.com/shopspring/decimal"

// DiscountType is the discount policy applied to an order subtotal.
type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountPercentage DiscountType = "percentage"
	DiscountFlatAmount DiscountType = "flat_amount"
)

var oneHundred = decimal.NewFromInt(100)

// OrderFinancials is the document-level financial breakdown of an order.
// All amounts are full precision; round only at the formatting boundary.
type OrderFinancials struct {
	ItemTotal      decimal.Decimal `json:"item_total"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	AfterDiscount  decimal.Decimal `json:"after_discount"`
	GSTAmount      decimal.Decimal `json:"gst_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// CalculateOrderFinancials derives discount, GST, and grand total from an
// order subtotal. It is a total function over a read model: out-of-range
// inputs are clamped to the nearest valid value, never rejected. A flat
// discount larger than the subtotal is clamped to the subtotal so the
// taxable amount can never go negative; a percentage discount is clamped
// to [0, 100]. Validation of writes belongs to the persistence layer.
func CalculateOrderFinancials(itemTotal decimal.Decimal, discountType DiscountType, discountValue, gstRatePercent decimal.Decimal) OrderFinancials {
	if itemTotal.IsNegative() {
		itemTotal = decimal.Zero
	}
	if discountValue.IsNegative() {
		discountValue = decimal.Zero
	}
	if gstRatePercent.IsNegative() {
		gstRatePercent = decimal.Zero
	}

	var discountAmount decimal.Decimal
	switch discountType {
	case DiscountPercentage:
		if discountValue.GreaterThan(oneHundred) {
			discountValue = oneHundred
		}
		discountAmount = itemTotal.Mul(discountValue).Div(oneHundred)
	case DiscountFlatAmount:
		discountAmount = decimal.Min(discountValue, itemTotal)
	default:
		discountAmount = decimal.Zero
	}

	afterDiscount := itemTotal.Sub(discountAmount)
	gstAmount := afterDiscount.Mul(gstRatePercent).Div(oneHundred)

	return OrderFinancials{
		ItemTotal:      itemTotal,
		DiscountAmount: discountAmount,
		AfterDiscount:  afterDiscount,
		GSTAmount:      gstAmount,
		TotalAmount:    afterDiscount.Add(gstAmount),
	}
}

// CompletionPercentage returns how much of an order has been dispatched,
// as an integer 0–100. The result is clamped even if upstream rounding
// pushed dispatched quantities slightly past the required total, and an
// order with no required quantity is 0% complete (never a division by zero).
func CompletionPercentage(lines []OrderLine) int {
	totalRequired := decimal.Zero
	totalDispatched := decimal.Zero
	for _, l := range lines {
		totalRequired = totalRequired.Add(l.RequiredQuantity)
		totalDispatched = totalDispatched.Add(l.DispatchedQuantity)
	}
	if !totalRequired.IsPositive() {
		return 0
	}
	pct := totalDispatched.Div(totalRequired).Mul(oneHundred).Round(0).IntPart()
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return int(pct)
}

// PaymentProgress derives the paid amount and payment progress of an invoice
// from its persisted total and outstanding amounts. Progress is a percentage
// clamped to [0, 100]; a zero-total invoice reports 0 rather than dividing
// by zero.
func PaymentProgress(totalAmount, outstandingAmount decimal.Decimal) (paid, progressPercent decimal.Decimal) {
	paid = totalAmount.Sub(outstandingAmount)
	if !totalAmount.IsPositive() {
		return paid, decimal.Zero
	}
	progressPercent = paid.Div(totalAmount).Mul(oneHundred)
	if progressPercent.IsNegative() {
		progressPercent = decimal.Zero
	} else if progressPercent.GreaterThan(oneHundred) {
		progressPercent = oneHundred
	}
	return paid, progressPercent
}

// RoundCurrency rounds an amount to 2 decimal places for display. Internal
// arithmetic stays full precision; call this only at formatting boundaries.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// SplitGST divides a GST amount for an intra-state supply into equal CGST
// and SGST halves. Inter-state supplies book the full amount as IGST and
// do not use this helper.
func SplitGST(gstAmount decimal.Decimal) (cgst, sgst decimal.Decimal) {
	half := gstAmount.Div(decimal.NewFromInt(2))
	return half, half
}

// RoundOff returns the grand total rounded to the nearest whole currency
// unit and the signed adjustment applied to reach it.
func RoundOff(total decimal.Decimal) (rounded, adjustment decimal.Decimal) {
	rounded = total.Round(0)
	return rounded, rounded.Sub(total)
}
