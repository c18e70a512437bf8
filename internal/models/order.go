package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/grizztep/Karinderya/internal/apperrors"
)

// OrderStatus represents the status of a single order line. Each line moves
// through the machine independently, even within a group.
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderCompleted  OrderStatus = "Completed"
	OrderCancelled  OrderStatus = "Cancelled"
)

// ParseOrderStatus normalizes a raw status value to its canonical form.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return OrderPending, true
	case "processing":
		return OrderProcessing, true
	case "completed":
		return OrderCompleted, true
	case "cancelled":
		return OrderCancelled, true
	default:
		return "", false
	}
}

// PaymentMethod is the payment option chosen at checkout.
type PaymentMethod string

const (
	PaymentCOD   PaymentMethod = "COD"
	PaymentGCash PaymentMethod = "GCash"
)

// ParsePaymentMethod normalizes a raw payment value.
func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cod":
		return PaymentCOD, true
	case "gcash":
		return PaymentGCash, true
	default:
		return "", false
	}
}

// OrderLine is one dish within a checkout. Lines created together share a
// group id; the delivery fee share is non-zero on exactly one of them.
type OrderLine struct {
	ID               int64         `json:"id" db:"id"`
	OrderCode        string        `json:"order_code" db:"order_code"`
	UserID           string        `json:"user_id" db:"user_id"`
	DishID           int64         `json:"dish_id" db:"dish_id"`
	DishName         string        `json:"dish_name" db:"dish_name"`
	GroupID          string        `json:"group_id" db:"group_id"`
	CustomerName     string        `json:"customer_name" db:"customer_name"`
	CustomerAddress  string        `json:"customer_address" db:"customer_address"`
	Quantity         int           `json:"quantity" db:"quantity"`
	UnitPriceCents   int64         `json:"unit_price_cents" db:"unit_price_cents"`
	DeliveryFeeCents int64         `json:"delivery_fee_cents" db:"delivery_fee_cents"`
	TotalCents       int64         `json:"total_cents" db:"total_cents"`
	Payment          PaymentMethod `json:"payment" db:"payment"`
	Notes            string        `json:"notes,omitempty" db:"notes"`
	Status           OrderStatus   `json:"status" db:"status"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
}

// ItemSubtotalCents is the line's dish cost without the fee share.
func (l OrderLine) ItemSubtotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// OrderGroup is a derived view over the lines sharing a group id. It has
// no stored row; totals are always recomputed from the lines.
type OrderGroup struct {
	GroupID          string      `json:"group_id"`
	Lines            []OrderLine `json:"orders"`
	SubtotalCents    int64       `json:"subtotal_cents"`
	DeliveryFeeCents int64       `json:"delivery_fee_cents"`
	GrandTotalCents  int64       `json:"grand_total_cents"`
}

// BuildOrderGroup aggregates lines into the group view. placeOrder and
// getGroup both use it, which keeps their figures identical by
// construction.
func BuildOrderGroup(groupID string, lines []OrderLine) OrderGroup {
	group := OrderGroup{GroupID: groupID, Lines: lines}
	for _, line := range lines {
		group.SubtotalCents += line.ItemSubtotalCents()
		group.DeliveryFeeCents += line.TotalCents - line.ItemSubtotalCents()
		group.GrandTotalCents += line.TotalCents
	}
	return group
}

// OrderItemRequest is one cart entry.
type OrderItemRequest struct {
	DishID   int64 `json:"dish_id"`
	Quantity int   `json:"quantity"`
}

// PlaceOrderRequest is the checkout payload. A single-dish order is just a
// one-item cart.
type PlaceOrderRequest struct {
	Items            []OrderItemRequest `json:"items"`
	Payment          string             `json:"payment"`
	CustomerName     string             `json:"customer_name"`
	CustomerAddress  string             `json:"customer_address"`
	Notes            string             `json:"notes,omitempty"`
	DeliveryFeeCents *int64             `json:"delivery_fee_cents,omitempty"`
}

const maxItemsPerOrder = 20

// Validate checks the checkout payload shape. Dish availability is checked
// later, inside the order transaction.
func (r *PlaceOrderRequest) Validate() error {
	if len(r.Items) == 0 {
		return apperrors.Validation("items", "items cannot be empty")
	}
	if len(r.Items) > maxItemsPerOrder {
		return apperrors.Validation("items", "a maximum of %d items is allowed", maxItemsPerOrder)
	}
	for i, item := range r.Items {
		if item.DishID <= 0 {
			return apperrors.Validation(fmt.Sprintf("items[%d].dish_id", i), "dish id is required")
		}
		if item.Quantity < 1 {
			return apperrors.Validation(fmt.Sprintf("items[%d].quantity", i), "quantity must be at least 1")
		}
	}
	if _, ok := ParsePaymentMethod(r.Payment); !ok {
		return apperrors.Validation("payment", "payment must be one of: COD, GCash")
	}
	if r.CustomerName == "" {
		return apperrors.Validation("customer_name", "customer name is required")
	}
	if len(r.CustomerName) > 255 {
		return apperrors.Validation("customer_name", "customer name must be less than 255 characters")
	}
	if r.CustomerAddress == "" {
		return apperrors.Validation("customer_address", "customer address is required")
	}
	if len(r.CustomerAddress) > 500 {
		return apperrors.Validation("customer_address", "customer address must be less than 500 characters")
	}
	if r.DeliveryFeeCents != nil && *r.DeliveryFeeCents < 0 {
		return apperrors.Validation("delivery_fee_cents", "delivery fee must not be negative")
	}
	return nil
}

// UpdateOrderStatusRequest is the staff payload for line status changes.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// GenerateOrderCode returns a human-readable code like ORD-20250820-A1B2C3.
func GenerateOrderCode(date time.Time) string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// Fall back to a time-derived suffix; uniqueness is enforced by
		// the order_code column constraint.
		return "ORD-" + date.Format("20060102") + "-" + date.Format("150405")
	}
	return "ORD-" + date.Format("20060102") + "-" + strings.ToUpper(hex.EncodeToString(buf))
}
