package core_test

import (
	"context"
	"strings"
	"testing"

	"textile-books/internal/core"
)

func TestGoodsInward_CreatesStockAndBooksReceipt(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	docService := core.NewDocumentService(pool)
	ledger := core.NewLedger(pool, docService)
	ruleEngine := core.NewRuleEngine(pool)
	inventory := core.NewInventoryService(pool, ruleEngine)
	ctx := context.Background()

	gi, err := inventory.RecordGoodsInward(ctx, core.GoodsInwardInput{
		CompanyCode:   "TB",
		WarehouseCode: "WH1",
		SupplierCode:  "SUP1",
		InwardDate:    "2025-06-01",
		Units: []core.InwardUnitInput{
			{ProductCode: "FAB1", Quantity: dec("50"), UnitCost: dec("40")},
			{ProductCode: "FAB1", Quantity: dec("30"), UnitCost: dec("40")},
		},
	}, ledger, docService)
	if err != nil {
		t.Fatalf("RecordGoodsInward failed: %v", err)
	}

	if !strings.Contains(gi.InwardNumber, "GIN") {
		t.Errorf("Expected a GIN inward number, got %q", gi.InwardNumber)
	}
	if len(gi.Units) != 2 {
		t.Fatalf("Expected 2 stock units, got %d", len(gi.Units))
	}
	for i, u := range gi.Units {
		if u.Status != core.StockUnitInStock {
			t.Errorf("Unit %d: expected status in_stock, got %s", i, u.Status)
		}
		if u.QRCode == "" {
			t.Errorf("Unit %d: expected a QR code", i)
		}
	}

	// Receipt value (50+30) × 40 = 3200: DR Inventory / CR Accounts Payable.
	balances, err := ledger.GetBalances(ctx, "TB")
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	balanceMap := make(map[string]string)
	for _, b := range balances {
		balanceMap[b.Code] = b.Balance.StringFixed(2)
	}
	if balanceMap["1400"] != "3200.00" {
		t.Errorf("Expected inventory balance 3200.00, got %s", balanceMap["1400"])
	}
	if balanceMap["2100"] != "-3200.00" {
		t.Errorf("Expected payables balance -3200.00, got %s", balanceMap["2100"])
	}

	levels, err := inventory.GetStockLevels(ctx, "TB")
	if err != nil {
		t.Fatalf("GetStockLevels failed: %v", err)
	}
	if len(levels) != 1 {
		t.Fatalf("Expected 1 stock level row, got %d", len(levels))
	}
	if levels[0].UnitsInStock != 2 || levels[0].QuantityTotal.StringFixed(2) != "80.00" {
		t.Errorf("Expected 2 units / 80.00 total, got %d / %s", levels[0].UnitsInStock, levels[0].QuantityTotal.StringFixed(2))
	}
}

func TestGoodsInward_AdvancesPurchaseOrderReceipt(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	docService := core.NewDocumentService(pool)
	ledger := core.NewLedger(pool, docService)
	ruleEngine := core.NewRuleEngine(pool)
	inventory := core.NewInventoryService(pool, ruleEngine)
	orders := core.NewOrderService(pool, nil)
	ctx := context.Background()

	po, err := orders.CreateOrder(ctx, core.CreateOrderInput{
		CompanyCode: "TB",
		Kind:        core.OrderKindPurchase,
		PartyCode:   "SUP1",
		OrderDate:   "2025-06-01",
		Lines:       []core.OrderLineInput{{ProductCode: "FAB1", Quantity: dec("100"), UnitRate: dec("40")}},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if _, err := orders.ApproveOrder(ctx, po.ID, docService); err != nil {
		t.Fatalf("ApproveOrder failed: %v", err)
	}

	_, err = inventory.RecordGoodsInward(ctx, core.GoodsInwardInput{
		CompanyCode:     "TB",
		WarehouseCode:   "WH1",
		SupplierCode:    "SUP1",
		PurchaseOrderID: &po.ID,
		InwardDate:      "2025-06-05",
		Units: []core.InwardUnitInput{
			{ProductCode: "FAB1", Quantity: dec("60"), UnitCost: dec("40")},
		},
	}, ledger, docService)
	if err != nil {
		t.Fatalf("RecordGoodsInward failed: %v", err)
	}

	after, err := orders.GetOrder(ctx, po.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if after.Lines[0].DispatchedQuantity.StringFixed(2) != "60.00" {
		t.Errorf("Expected received quantity 60.00, got %s", after.Lines[0].DispatchedQuantity.StringFixed(2))
	}
	if after.CompletionPercent != 60 {
		t.Errorf("Expected 60%% completion, got %d", after.CompletionPercent)
	}

	// Over-receipt is capped at the required quantity.
	_, err = inventory.RecordGoodsInward(ctx, core.GoodsInwardInput{
		CompanyCode:     "TB",
		WarehouseCode:   "WH1",
		PurchaseOrderID: &po.ID,
		InwardDate:      "2025-06-06",
		Units: []core.InwardUnitInput{
			{ProductCode: "FAB1", Quantity: dec("70"), UnitCost: dec("40")},
		},
	}, ledger, docService)
	if err != nil {
		t.Fatalf("Second RecordGoodsInward failed: %v", err)
	}

	after, err = orders.GetOrder(ctx, po.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if after.Lines[0].DispatchedQuantity.StringFixed(2) != "100.00" {
		t.Errorf("Expected received quantity capped at 100.00, got %s", after.Lines[0].DispatchedQuantity.StringFixed(2))
	}
	if after.CompletionPercent != 100 {
		t.Errorf("Expected 100%% completion, got %d", after.CompletionPercent)
	}
}

func TestGoodsOutward_DispatchesAndAutoCompletes(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	docService := core.NewDocumentService(pool)
	ledger := core.NewLedger(pool, docService)
	ruleEngine := core.NewRuleEngine(pool)
	inventory := core.NewInventoryService(pool, ruleEngine)
	orders := core.NewOrderService(pool, nil)
	ctx := context.Background()

	so, err := orders.CreateOrder(ctx, core.CreateOrderInput{
		CompanyCode: "TB",
		Kind:        core.OrderKindSales,
		PartyCode:   "CUST1",
		OrderDate:   "2025-06-01",
		Lines:       []core.OrderLineInput{{ProductCode: "FAB1", Quantity: dec("80")}},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	so, err = orders.ApproveOrder(ctx, so.ID, docService)
	if err != nil {
		t.Fatalf("ApproveOrder failed: %v", err)
	}

	gi, err := inventory.RecordGoodsInward(ctx, core.GoodsInwardInput{
		CompanyCode:   "TB",
		WarehouseCode: "WH1",
		InwardDate:    "2025-06-02",
		Units: []core.InwardUnitInput{
			{ProductCode: "FAB1", Quantity: dec("50"), UnitCost: dec("40")},
			{ProductCode: "FAB1", Quantity: dec("30"), UnitCost: dec("40")},
		},
	}, ledger, docService)
	if err != nil {
		t.Fatalf("RecordGoodsInward failed: %v", err)
	}

	lineID := so.Lines[0].ID
	gw, err := inventory.RecordGoodsOutward(ctx, core.GoodsOutwardInput{
		CompanyCode:  "TB",
		SalesOrderID: so.ID,
		OutwardDate:  "2025-06-03",
		Items: []core.OutwardItemInput{
			{StockUnitID: gi.Units[0].ID, OrderLineID: lineID},
			{StockUnitID: gi.Units[1].ID, OrderLineID: lineID},
		},
	}, ledger, docService)
	if err != nil {
		t.Fatalf("RecordGoodsOutward failed: %v", err)
	}

	if !strings.Contains(gw.OutwardNumber, "GON") {
		t.Errorf("Expected a GON outward number, got %q", gw.OutwardNumber)
	}
	if len(gw.Items) != 2 {
		t.Fatalf("Expected 2 outward items, got %d", len(gw.Items))
	}

	// Full dispatch auto-completes the order.
	after, err := orders.GetOrder(ctx, so.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if after.Status != core.OrderCompleted {
		t.Errorf("Expected order completed after full dispatch, got %s", after.Status)
	}
	if after.CompletionPercent != 100 {
		t.Errorf("Expected 100%% completion, got %d", after.CompletionPercent)
	}

	dispatched := core.StockUnitDispatched
	units, err := inventory.GetStockUnits(ctx, "TB", &dispatched)
	if err != nil {
		t.Fatalf("GetStockUnits failed: %v", err)
	}
	if len(units) != 2 {
		t.Errorf("Expected 2 dispatched units, got %d", len(units))
	}

	// COGS booked at cost: 80 × 40 = 3200, inventory back to zero.
	balances, err := ledger.GetBalances(ctx, "TB")
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	balanceMap := make(map[string]string)
	for _, b := range balances {
		balanceMap[b.Code] = b.Balance.StringFixed(2)
	}
	if balanceMap["5200"] != "3200.00" {
		t.Errorf("Expected COGS balance 3200.00, got %s", balanceMap["5200"])
	}
	if balanceMap["1400"] != "0.00" {
		t.Errorf("Expected inventory balance 0.00, got %s", balanceMap["1400"])
	}
}

func TestGoodsOutward_RejectsOverDispatch(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	docService := core.NewDocumentService(pool)
	ledger := core.NewLedger(pool, docService)
	ruleEngine := core.NewRuleEngine(pool)
	inventory := core.NewInventoryService(pool, ruleEngine)
	orders := core.NewOrderService(pool, nil)
	ctx := context.Background()

	so, err := orders.CreateOrder(ctx, core.CreateOrderInput{
		CompanyCode: "TB",
		Kind:        core.OrderKindSales,
		PartyCode:   "CUST1",
		OrderDate:   "2025-06-01",
		Lines:       []core.OrderLineInput{{ProductCode: "FAB1", Quantity: dec("40")}},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	so, err = orders.ApproveOrder(ctx, so.ID, docService)
	if err != nil {
		t.Fatalf("ApproveOrder failed: %v", err)
	}

	gi, err := inventory.RecordGoodsInward(ctx, core.GoodsInwardInput{
		CompanyCode:   "TB",
		WarehouseCode: "WH1",
		InwardDate:    "2025-06-02",
		Units: []core.InwardUnitInput{
			{ProductCode: "FAB1", Quantity: dec("50"), UnitCost: dec("40")},
		},
	}, ledger, docService)
	if err != nil {
		t.Fatalf("RecordGoodsInward failed: %v", err)
	}

	// The unit holds 50 but the line only requires 40.
	_, err = inventory.RecordGoodsOutward(ctx, core.GoodsOutwardInput{
		CompanyCode:  "TB",
		SalesOrderID: so.ID,
		OutwardDate:  "2025-06-03",
		Items: []core.OutwardItemInput{
			{StockUnitID: gi.Units[0].ID, OrderLineID: so.Lines[0].ID},
		},
	}, ledger, docService)
	if err == nil {
		t.Fatal("Expected over-dispatch to be rejected, got nil")
	}
	if !strings.Contains(err.Error(), "would exceed required quantity") {
		t.Errorf("Unexpected error: %v", err)
	}

	// Nothing moved: the unit is still in stock and the order untouched.
	inStock := core.StockUnitInStock
	units, err := inventory.GetStockUnits(ctx, "TB", &inStock)
	if err != nil {
		t.Fatalf("GetStockUnits failed: %v", err)
	}
	if len(units) != 1 {
		t.Errorf("Expected the unit to remain in stock, got %d in-stock units", len(units))
	}
}

func TestCreateQRBatch_RelabelsInStockUnits(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	docService := core.NewDocumentService(pool)
	ledger := core.NewLedger(pool, docService)
	ruleEngine := core.NewRuleEngine(pool)
	inventory := core.NewInventoryService(pool, ruleEngine)
	ctx := context.Background()

	gi, err := inventory.RecordGoodsInward(ctx, core.GoodsInwardInput{
		CompanyCode:   "TB",
		WarehouseCode: "WH1",
		InwardDate:    "2025-06-01",
		Units: []core.InwardUnitInput{
			{ProductCode: "FAB1", Quantity: dec("25"), UnitCost: dec("40")},
			{ProductCode: "FAB1", Quantity: dec("25"), UnitCost: dec("40")},
		},
	}, ledger, docService)
	if err != nil {
		t.Fatalf("RecordGoodsInward failed: %v", err)
	}

	oldCodes := map[int]string{}
	for _, u := range gi.Units {
		oldCodes[u.ID] = u.QRCode
	}

	batch, err := inventory.CreateQRBatch(ctx, "TB", []int{gi.Units[0].ID, gi.Units[1].ID}, docService)
	if err != nil {
		t.Fatalf("CreateQRBatch failed: %v", err)
	}
	if !strings.Contains(batch.BatchNumber, "QRB") {
		t.Errorf("Expected a QRB batch number, got %q", batch.BatchNumber)
	}
	if len(batch.UnitIDs) != 2 {
		t.Fatalf("Expected 2 units in batch, got %d", len(batch.UnitIDs))
	}

	units, err := inventory.GetStockUnits(ctx, "TB", nil)
	if err != nil {
		t.Fatalf("GetStockUnits failed: %v", err)
	}
	for _, u := range units {
		if u.QRCode == oldCodes[u.ID] {
			t.Errorf("Unit %d: expected a fresh QR code after relabelling", u.ID)
		}
	}

	// Unknown unit IDs fail the whole batch.
	if _, err := inventory.CreateQRBatch(ctx, "TB", []int{999999}, docService); err == nil {
		t.Fatal("Expected QR batch with unknown unit to fail")
	}
}
