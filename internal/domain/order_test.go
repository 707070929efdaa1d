package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestFormatOrderNumber(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{
			name: "uuid takes last six hex chars uppercased",
			id:   "0d94b7a2-5a1c-4f7e-9c3b-1f2e3d4c5ba9",
			want: "VC-4C5BA9",
		},
		{
			name: "short id used whole",
			id:   "ab12",
			want: "VC-AB12",
		},
		{
			name: "already uppercase unchanged",
			id:   "ffffffff-ffff-ffff-ffff-ffffffFFFFFF",
			want: "VC-FFFFFF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatOrderNumber(tt.id); got != tt.want {
				t.Errorf("FormatOrderNumber(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestFormatOrderNumber_Deterministic(t *testing.T) {
	id := uuid.NewString()
	first := FormatOrderNumber(id)
	for i := 0; i < 10; i++ {
		if got := FormatOrderNumber(id); got != first {
			t.Fatalf("order number not deterministic: %q != %q", got, first)
		}
	}
}

func TestFormatOrderNumber_WellFormed(t *testing.T) {
	const n = 1000
	for i := 0; i < n; i++ {
		id := uuid.NewString()
		num := FormatOrderNumber(id)
		if !strings.HasPrefix(num, OrderNumberPrefix) {
			t.Fatalf("order number %q missing prefix %q", num, OrderNumberPrefix)
		}
		if len(num) != len(OrderNumberPrefix)+6 {
			t.Fatalf("order number %q has wrong length", num)
		}
		if num != strings.ToUpper(num) {
			t.Fatalf("order number %q not uppercased", num)
		}
	}
}

func TestFormatOrderNumber_DistinctSuffixesDistinctNumbers(t *testing.T) {
	a := FormatOrderNumber("3f2504e0-4f89-11d3-9a0c-0305e82c0001")
	b := FormatOrderNumber("3f2504e0-4f89-11d3-9a0c-0305e82c0002")
	if a == b {
		t.Fatalf("distinct ID suffixes produced the same order number %q", a)
	}
}

func TestOrder_EstimatedDelivery(t *testing.T) {
	orderDate := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	o := &Order{OrderDate: orderDate}

	want := orderDate.Add(7 * 24 * time.Hour)
	if got := o.EstimatedDelivery(); !got.Equal(want) {
		t.Errorf("EstimatedDelivery() = %v, want %v", got, want)
	}
}

func TestOrder_ApplyStatus_StampsShippedOnce(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	o := &Order{Status: StatusProcessing}

	o.ApplyStatus(StatusShipped, now)
	if o.ShippedDate == nil || !o.ShippedDate.Equal(now) {
		t.Fatalf("expected shipped date %v, got %v", now, o.ShippedDate)
	}

	// A second shipped transition must not overwrite the stamp.
	later := now.Add(48 * time.Hour)
	o.ApplyStatus(StatusShipped, later)
	if !o.ShippedDate.Equal(now) {
		t.Errorf("shipped date overwritten: got %v, want %v", o.ShippedDate, now)
	}
}

func TestOrder_ApplyStatus_StampsDelivered(t *testing.T) {
	now := time.Date(2025, 6, 3, 18, 0, 0, 0, time.UTC)
	o := &Order{Status: StatusShipped}

	o.ApplyStatus(StatusDelivered, now)
	if o.DeliveredDate == nil || !o.DeliveredDate.Equal(now) {
		t.Fatalf("expected delivered date %v, got %v", now, o.DeliveredDate)
	}
	if o.ShippedDate != nil {
		t.Errorf("shipped date should remain unset, got %v", o.ShippedDate)
	}
	if o.Status != StatusDelivered {
		t.Errorf("status = %q, want %q", o.Status, StatusDelivered)
	}
}

func TestOrder_ApplyStatus_NoWhitelist(t *testing.T) {
	// Transitions are deliberately unvalidated: delivered back to pending
	// is accepted. The caller is trusted.
	now := time.Now()
	o := &Order{Status: StatusDelivered}
	o.ApplyStatus(StatusPending, now)
	if o.Status != StatusPending {
		t.Errorf("status = %q, want %q", o.Status, StatusPending)
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range OrderStatuses() {
		if !s.Valid() {
			t.Errorf("status %q should be valid", s)
		}
	}
	for _, s := range []OrderStatus{"", "unknown", "COMPLETED", "shipped "} {
		if s.Valid() {
			t.Errorf("status %q should be invalid", s)
		}
	}
}

func TestOrderStatus_CountsAsRevenue(t *testing.T) {
	revenue := map[OrderStatus]bool{
		StatusCompleted:  true,
		StatusDelivered:  true,
		StatusPending:    false,
		StatusProcessing: false,
		StatusShipped:    false,
		StatusCancelled:  false,
	}
	for s, want := range revenue {
		if got := s.CountsAsRevenue(); got != want {
			t.Errorf("%q.CountsAsRevenue() = %v, want %v", s, got, want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.com", "first.last@example.co.uk", "x+tag@sub.domain.io"}
	invalid := []string{"", "plain", "no@tld", "spaces in@addr.com", "@missing.local", "two@@at.com"}

	for _, e := range valid {
		if !ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = false, want true", e)
		}
	}
	for _, e := range invalid {
		if ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = true, want false", e)
		}
	}
}

func TestCustomerInfo_Normalize(t *testing.T) {
	c := CustomerInfo{
		Name:  "  Ada Lovelace  ",
		Email: " Ada@Example.COM ",
		Phone: " 555-0100 ",
	}
	c.Normalize()

	if c.Name != "Ada Lovelace" {
		t.Errorf("name = %q", c.Name)
	}
	if c.Email != "ada@example.com" {
		t.Errorf("email = %q", c.Email)
	}
	if c.Phone != "555-0100" {
		t.Errorf("phone = %q", c.Phone)
	}
	if c.Address.Country != DefaultCountry {
		t.Errorf("country = %q, want %q", c.Address.Country, DefaultCountry)
	}
}

func TestOrder_Validate_AggregatesFieldErrors(t *testing.T) {
	o := &Order{
		CustomerInfo:  CustomerInfo{Name: "", Email: "not-an-email"},
		Total:         -1,
		Status:        StatusCompleted,
		PaymentStatus: PaymentPaid,
		Items: []OrderItem{
			{ProductID: "p1", Quantity: 0, Price: -2},
		},
	}

	err := o.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	fields := GetValidationFields(err)
	for _, field := range []string{
		"customerInfo.name",
		"customerInfo.email",
		"total",
		"items[0].quantity",
		"items[0].price",
	} {
		if _, ok := fields[field]; !ok {
			t.Errorf("missing field error for %q (got %v)", field, fields)
		}
	}
}

func TestOrder_Validate_NotesLength(t *testing.T) {
	o := &Order{
		CustomerInfo:  CustomerInfo{Name: "A B", Email: "a@b.com"},
		Status:        StatusCompleted,
		PaymentStatus: PaymentPaid,
		Notes:         strings.Repeat("x", MaxNotesLen+1),
	}

	err := o.Validate()
	if err == nil {
		t.Fatal("expected validation error for long notes")
	}
	if _, ok := GetValidationFields(err)["notes"]; !ok {
		t.Errorf("expected notes field error, got %v", GetValidationFields(err))
	}
}

func TestOrder_Validate_OK(t *testing.T) {
	o := &Order{
		CustomerInfo:  CustomerInfo{Name: "A B", Email: "a@b.com"},
		Total:         19.98,
		Status:        StatusCompleted,
		PaymentStatus: PaymentPaid,
		Items: []OrderItem{
			{ProductID: "p1", Quantity: 2, Price: 9.99, Name: "Widget"},
		},
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestOrder_Summary(t *testing.T) {
	o := &Order{
		OrderNumber: "VC-AB12CD",
		Total:       42.5,
		Status:      StatusCompleted,
		OrderDate:   time.Now(),
		Items: []OrderItem{
			{ProductID: "p1", Quantity: 2, Price: 10},
			{ProductID: "p2", Quantity: 3, Price: 7.5},
		},
	}
	s := o.Summary()
	if s.ItemCount != 5 {
		t.Errorf("item count = %d, want 5", s.ItemCount)
	}
	if s.OrderNumber != o.OrderNumber || s.Total != o.Total || s.Status != o.Status {
		t.Errorf("summary fields mismatch: %+v", s)
	}
}
