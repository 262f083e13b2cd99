package core_test

import (
	"testing"

	"textile-books/internal/core"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculateOrderFinancials(t *testing.T) {
	tests := []struct {
		name           string
		itemTotal      string
		discountType   core.DiscountType
		discountValue  string
		gstRatePercent string
		wantDiscount   string
		wantGST        string
		wantTotal      string
	}{
		{
			name:           "percentage discount with GST",
			itemTotal:      "1000",
			discountType:   core.DiscountPercentage,
			discountValue:  "10",
			gstRatePercent: "18",
			wantDiscount:   "100",
			wantGST:        "162",
			wantTotal:      "1062",
		},
		{
			name:           "no discount no GST",
			itemTotal:      "500",
			discountType:   core.DiscountNone,
			discountValue:  "0",
			gstRatePercent: "0",
			wantDiscount:   "0",
			wantGST:        "0",
			wantTotal:      "500",
		},
		{
			name:           "flat discount",
			itemTotal:      "1000",
			discountType:   core.DiscountFlatAmount,
			discountValue:  "250",
			gstRatePercent: "5",
			wantDiscount:   "250",
			wantGST:        "37.5",
			wantTotal:      "787.5",
		},
		{
			name:           "flat discount exceeding subtotal is clamped",
			itemTotal:      "100",
			discountType:   core.DiscountFlatAmount,
			discountValue:  "150",
			gstRatePercent: "18",
			wantDiscount:   "100",
			wantGST:        "0",
			wantTotal:      "0",
		},
		{
			name:           "percentage above 100 is clamped",
			itemTotal:      "200",
			discountType:   core.DiscountPercentage,
			discountValue:  "150",
			gstRatePercent: "18",
			wantDiscount:   "200",
			wantGST:        "0",
			wantTotal:      "0",
		},
		{
			name:           "negative inputs are clamped to zero",
			itemTotal:      "-500",
			discountType:   core.DiscountPercentage,
			discountValue:  "-10",
			gstRatePercent: "-18",
			wantDiscount:   "0",
			wantGST:        "0",
			wantTotal:      "0",
		},
		{
			name:           "unknown discount type means no discount",
			itemTotal:      "1000",
			discountType:   core.DiscountType("bogus"),
			discountValue:  "50",
			gstRatePercent: "12",
			wantDiscount:   "0",
			wantGST:        "120",
			wantTotal:      "1120",
		},
		{
			name:           "fractional amounts keep precision",
			itemTotal:      "999.99",
			discountType:   core.DiscountPercentage,
			discountValue:  "12.5",
			gstRatePercent: "18",
			wantDiscount:   "124.99875",
			wantGST:        "157.4984625",
			wantTotal:      "1032.4897125",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.CalculateOrderFinancials(dec(tt.itemTotal), tt.discountType, dec(tt.discountValue), dec(tt.gstRatePercent))

			if !got.DiscountAmount.Equal(dec(tt.wantDiscount)) {
				t.Errorf("DiscountAmount = %s, want %s", got.DiscountAmount, tt.wantDiscount)
			}
			if !got.GSTAmount.Equal(dec(tt.wantGST)) {
				t.Errorf("GSTAmount = %s, want %s", got.GSTAmount, tt.wantGST)
			}
			if !got.TotalAmount.Equal(dec(tt.wantTotal)) {
				t.Errorf("TotalAmount = %s, want %s", got.TotalAmount, tt.wantTotal)
			}
			if !got.AfterDiscount.Equal(got.ItemTotal.Sub(got.DiscountAmount)) {
				t.Errorf("AfterDiscount = %s, want ItemTotal - DiscountAmount = %s", got.AfterDiscount, got.ItemTotal.Sub(got.DiscountAmount))
			}
		})
	}
}

func TestCompletionPercentage(t *testing.T) {
	line := func(required, dispatched string) core.OrderLine {
		return core.OrderLine{RequiredQuantity: dec(required), DispatchedQuantity: dec(dispatched)}
	}

	tests := []struct {
		name  string
		lines []core.OrderLine
		want  int
	}{
		{
			name:  "three quarters dispatched",
			lines: []core.OrderLine{line("100", "50"), line("100", "100")},
			want:  75,
		},
		{
			name:  "nothing dispatched",
			lines: []core.OrderLine{line("40", "0"), line("60", "0")},
			want:  0,
		},
		{
			name:  "fully dispatched",
			lines: []core.OrderLine{line("10", "10")},
			want:  100,
		},
		{
			name:  "zero required is zero percent",
			lines: []core.OrderLine{line("0", "0")},
			want:  0,
		},
		{
			name:  "no lines",
			lines: nil,
			want:  0,
		},
		{
			name:  "over-dispatch clamps to 100",
			lines: []core.OrderLine{line("100", "110")},
			want:  100,
		},
		{
			name:  "rounds to nearest integer",
			lines: []core.OrderLine{line("3", "1")},
			want:  33,
		},
		{
			name:  "rounds half up",
			lines: []core.OrderLine{line("8", "5")}, // 62.5%
			want:  63,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.CompletionPercentage(tt.lines); got != tt.want {
				t.Errorf("CompletionPercentage = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPaymentProgress(t *testing.T) {
	tests := []struct {
		name         string
		total        string
		outstanding  string
		wantPaid     string
		wantProgress string
	}{
		{
			name:         "three quarters paid",
			total:        "1000",
			outstanding:  "250",
			wantPaid:     "750",
			wantProgress: "75",
		},
		{
			name:         "nothing paid",
			total:        "1000",
			outstanding:  "1000",
			wantPaid:     "0",
			wantProgress: "0",
		},
		{
			name:         "fully paid",
			total:        "1000",
			outstanding:  "0",
			wantPaid:     "1000",
			wantProgress: "100",
		},
		{
			name:         "zero total reports zero progress",
			total:        "0",
			outstanding:  "0",
			wantPaid:     "0",
			wantProgress: "0",
		},
		{
			name:         "overpayment clamps to 100",
			total:        "1000",
			outstanding:  "-50",
			wantPaid:     "1050",
			wantProgress: "100",
		},
		{
			name:         "outstanding above total clamps to 0",
			total:        "1000",
			outstanding:  "1100",
			wantPaid:     "-100",
			wantProgress: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paid, progress := core.PaymentProgress(dec(tt.total), dec(tt.outstanding))
			if !paid.Equal(dec(tt.wantPaid)) {
				t.Errorf("paid = %s, want %s", paid, tt.wantPaid)
			}
			if !progress.Equal(dec(tt.wantProgress)) {
				t.Errorf("progress = %s, want %s", progress, tt.wantProgress)
			}
		})
	}
}

func TestSplitGST(t *testing.T) {
	cgst, sgst := core.SplitGST(dec("162"))
	if !cgst.Equal(dec("81")) || !sgst.Equal(dec("81")) {
		t.Errorf("SplitGST(162) = %s, %s, want 81, 81", cgst, sgst)
	}
	if !cgst.Add(sgst).Equal(dec("162")) {
		t.Errorf("CGST + SGST = %s, want 162", cgst.Add(sgst))
	}
}

func TestRoundOff(t *testing.T) {
	tests := []struct {
		total          string
		wantRounded    string
		wantAdjustment string
	}{
		{"1062.49", "1062", "-0.49"},
		{"1062.50", "1063", "0.5"},
		{"1062.00", "1062", "0"},
		{"787.5", "788", "0.5"},
	}

	for _, tt := range tests {
		rounded, adj := core.RoundOff(dec(tt.total))
		if !rounded.Equal(dec(tt.wantRounded)) {
			t.Errorf("RoundOff(%s) rounded = %s, want %s", tt.total, rounded, tt.wantRounded)
		}
		if !adj.Equal(dec(tt.wantAdjustment)) {
			t.Errorf("RoundOff(%s) adjustment = %s, want %s", tt.total, adj, tt.wantAdjustment)
		}
		if !rounded.Equal(dec(tt.total).Add(adj)) {
			t.Errorf("RoundOff(%s): total + adjustment = %s, want %s", tt.total, dec(tt.total).Add(adj), rounded)
		}
	}
}
