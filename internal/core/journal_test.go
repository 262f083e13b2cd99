package core_test

import (
	"testing"

	"textile-books/internal/core"
)

func TestEntryProposal_Validate(t *testing.T) {
	line := func(account string, debit bool, amount string) core.EntryLine {
		return core.EntryLine{AccountCode: account, IsDebit: debit, Amount: dec(amount)}
	}

	tests := []struct {
		name      string
		proposal  core.EntryProposal
		expectErr bool
	}{
		{
			name: "balanced entry passes",
			proposal: core.EntryProposal{
				DocumentTypeCode: "JE",
				CompanyCode:      "1000",
				PostingDate:      "2025-06-15",
				Lines: []core.EntryLine{
					line("1200", true, "1062.00"),
					line("4000", false, "900.00"),
					line("2300", false, "162.00"),
				},
			},
			expectErr: false,
		},
		{
			name: "imbalanced entry fails",
			proposal: core.EntryProposal{
				DocumentTypeCode: "JE",
				CompanyCode:      "1000",
				PostingDate:      "2025-06-15",
				Lines: []core.EntryLine{
					line("1200", true, "200.00"),
					line("4000", false, "100.00"),
				},
			},
			expectErr: true,
		},
		{
			name: "single line fails",
			proposal: core.EntryProposal{
				DocumentTypeCode: "JE",
				CompanyCode:      "1000",
				PostingDate:      "2025-06-15",
				Lines: []core.EntryLine{
					line("1200", true, "100.00"),
				},
			},
			expectErr: true,
		},
		{
			name: "zero amount fails",
			proposal: core.EntryProposal{
				DocumentTypeCode: "JE",
				CompanyCode:      "1000",
				PostingDate:      "2025-06-15",
				Lines: []core.EntryLine{
					line("1200", true, "0.00"),
					line("4000", false, "0.00"),
				},
			},
			expectErr: true,
		},
		{
			name: "negative amount fails",
			proposal: core.EntryProposal{
				DocumentTypeCode: "JE",
				CompanyCode:      "1000",
				PostingDate:      "2025-06-15",
				Lines: []core.EntryLine{
					line("1200", true, "-100.00"),
					line("4000", false, "-100.00"),
				},
			},
			expectErr: true,
		},
		{
			name: "missing company code fails",
			proposal: core.EntryProposal{
				DocumentTypeCode: "JE",
				PostingDate:      "2025-06-15",
				Lines: []core.EntryLine{
					line("1200", true, "100.00"),
					line("4000", false, "100.00"),
				},
			},
			expectErr: true,
		},
		{
			name: "bad posting date fails",
			proposal: core.EntryProposal{
				DocumentTypeCode: "JE",
				CompanyCode:      "1000",
				PostingDate:      "15-06-2025",
				Lines: []core.EntryLine{
					line("1200", true, "100.00"),
					line("4000", false, "100.00"),
				},
			},
			expectErr: true,
		},
		{
			name: "missing account code fails",
			proposal: core.EntryProposal{
				DocumentTypeCode: "JE",
				CompanyCode:      "1000",
				PostingDate:      "2025-06-15",
				Lines: []core.EntryLine{
					line("", true, "100.00"),
					line("4000", false, "100.00"),
				},
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.proposal
			p.Normalize()
			err := p.Validate()

			if tt.expectErr && err == nil {
				t.Errorf("expected error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error: %v, proposal: %+v", err, p)
			}
		})
	}
}

func TestEntryProposal_NormalizeDefaultsDocumentDate(t *testing.T) {
	p := core.EntryProposal{
		DocumentTypeCode: "JE",
		CompanyCode:      "1000",
		PostingDate:      "2025-06-15",
		Lines: []core.EntryLine{
			{AccountCode: "1200", IsDebit: true, Amount: dec("100.00")},
			{AccountCode: "4000", IsDebit: false, Amount: dec("100.00")},
		},
	}
	p.Normalize()
	if p.DocumentDate != "2025-06-15" {
		t.Errorf("DocumentDate = %q, want posting date", p.DocumentDate)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
