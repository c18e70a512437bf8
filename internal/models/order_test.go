package models

import (
	"strings"
	"testing"
	"time"
)

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		input string
		want  OrderStatus
		ok    bool
	}{
		{"Pending", OrderPending, true},
		{"pending", OrderPending, true},
		{"PROCESSING", OrderProcessing, true},
		{" completed ", OrderCompleted, true},
		{"Cancelled", OrderCancelled, true},
		{"shipped", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseOrderStatus(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseOrderStatus(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		input string
		want  PaymentMethod
		ok    bool
	}{
		{"COD", PaymentCOD, true},
		{"cod", PaymentCOD, true},
		{"GCash", PaymentGCash, true},
		{"gcash", PaymentGCash, true},
		{"card", "", false},
	}

	for _, tt := range tests {
		got, ok := ParsePaymentMethod(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParsePaymentMethod(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPlaceOrderRequestValidate(t *testing.T) {
	valid := func() PlaceOrderRequest {
		return PlaceOrderRequest{
			Items:           []OrderItemRequest{{DishID: 1, Quantity: 2}},
			Payment:         "COD",
			CustomerName:    "Juan Dela Cruz",
			CustomerAddress: "123 Rizal St, Iloilo City",
		}
	}

	tests := []struct {
		name      string
		mutate    func(*PlaceOrderRequest)
		wantField string
	}{
		{"valid", func(r *PlaceOrderRequest) {}, ""},
		{"empty items", func(r *PlaceOrderRequest) { r.Items = nil }, "items"},
		{"too many items", func(r *PlaceOrderRequest) {
			r.Items = make([]OrderItemRequest, 21)
			for i := range r.Items {
				r.Items[i] = OrderItemRequest{DishID: 1, Quantity: 1}
			}
		}, "items"},
		{"missing dish id", func(r *PlaceOrderRequest) { r.Items[0].DishID = 0 }, "items[0].dish_id"},
		{"zero quantity", func(r *PlaceOrderRequest) { r.Items[0].Quantity = 0 }, "items[0].quantity"},
		{"bad payment", func(r *PlaceOrderRequest) { r.Payment = "check" }, "payment"},
		{"missing name", func(r *PlaceOrderRequest) { r.CustomerName = "" }, "customer_name"},
		{"name too long", func(r *PlaceOrderRequest) { r.CustomerName = strings.Repeat("a", 256) }, "customer_name"},
		{"missing address", func(r *PlaceOrderRequest) { r.CustomerAddress = "" }, "customer_address"},
		{"address too long", func(r *PlaceOrderRequest) { r.CustomerAddress = strings.Repeat("a", 501) }, "customer_address"},
		{"negative fee", func(r *PlaceOrderRequest) {
			fee := int64(-1)
			r.DeliveryFeeCents = &fee
		}, "delivery_fee_cents"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.HasPrefix(err.Error(), tt.wantField+":") {
				t.Errorf("expected error on field %q, got %q", tt.wantField, err.Error())
			}
		})
	}
}

func TestBuildOrderGroup(t *testing.T) {
	lines := []OrderLine{
		{DishName: "Adobong Manok", Quantity: 2, UnitPriceCents: 5000, DeliveryFeeCents: 2000, TotalCents: 12000},
		{DishName: "Rice", Quantity: 1, UnitPriceCents: 1500, DeliveryFeeCents: 0, TotalCents: 1500},
	}

	group := BuildOrderGroup("order_abc", lines)

	if group.GroupID != "order_abc" {
		t.Errorf("expected group id order_abc, got %s", group.GroupID)
	}
	if group.SubtotalCents != 11500 {
		t.Errorf("expected subtotal 11500, got %d", group.SubtotalCents)
	}
	if group.DeliveryFeeCents != 2000 {
		t.Errorf("expected delivery fee 2000, got %d", group.DeliveryFeeCents)
	}
	if group.GrandTotalCents != 13500 {
		t.Errorf("expected grand total 13500, got %d", group.GrandTotalCents)
	}
	if len(group.Lines) != 2 {
		t.Errorf("expected 2 lines, got %d", len(group.Lines))
	}
}

func TestBuildOrderGroupEmpty(t *testing.T) {
	group := BuildOrderGroup("order_empty", nil)
	if group.SubtotalCents != 0 || group.DeliveryFeeCents != 0 || group.GrandTotalCents != 0 {
		t.Errorf("expected zero totals, got %+v", group)
	}
}

func TestGenerateOrderCode(t *testing.T) {
	date := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	code := GenerateOrderCode(date)

	if !strings.HasPrefix(code, "ORD-20260820-") {
		t.Fatalf("expected ORD-20260820- prefix, got %s", code)
	}
	suffix := strings.TrimPrefix(code, "ORD-20260820-")
	if len(suffix) != 6 {
		t.Errorf("expected 6-character suffix, got %q", suffix)
	}
	if suffix != strings.ToUpper(suffix) {
		t.Errorf("expected uppercase suffix, got %q", suffix)
	}

	if other := GenerateOrderCode(date); other == code {
		t.Errorf("expected distinct codes, both were %s", code)
	}
}
