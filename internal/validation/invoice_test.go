package validation

import (
	"math"
	"net/url"
	"reflect"
	"testing"

	"github.com/mmynk/invoicer/internal/models"
)

func TestParseCreateInvoice(t *testing.T) {
	t.Run("valid input is normalized", func(t *testing.T) {
		in, errs := ParseCreateInvoice(Form{"customerId": "c1", "amount": "12.50", "status": "pending"})
		if errs != nil {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if in.CustomerID != "c1" {
			t.Errorf("CustomerID: got %q, want c1", in.CustomerID)
		}
		if in.Cents() != 1250 {
			t.Errorf("Cents: got %d, want 1250", in.Cents())
		}
		if in.Status != models.StatusPending {
			t.Errorf("Status: got %q, want pending", in.Status)
		}
	})

	t.Run("empty customer only fails customerId", func(t *testing.T) {
		_, errs := ParseCreateInvoice(Form{"customerId": "", "amount": "5", "status": "paid"})
		want := FieldErrors{"customerId": {MsgSelectCustomer}}
		if !reflect.DeepEqual(errs, want) {
			t.Errorf("got %v, want %v", errs, want)
		}
	})

	t.Run("missing fields report every failure", func(t *testing.T) {
		_, errs := ParseCreateInvoice(Form{})
		if got := errs.Fields(); !reflect.DeepEqual(got, []string{"amount", "customerId", "status"}) {
			t.Errorf("failing fields: got %v", got)
		}
	})

	t.Run("id and date are ignored", func(t *testing.T) {
		_, errs := ParseCreateInvoice(Form{"customerId": "c1", "amount": "1", "status": "paid", "date": "nope"})
		if errs != nil {
			t.Errorf("unexpected errors: %v", errs)
		}
	})
}

func TestAmountRule(t *testing.T) {
	bad := []string{"0", "-1", "-0.01", "", "   ", "abc", "12,50", "0.00"}
	for _, amount := range bad {
		t.Run("reject "+amount, func(t *testing.T) {
			_, errs := ParseUpdateInvoice(Form{"customerId": "c1", "amount": amount, "status": "paid"})
			want := FieldErrors{"amount": {MsgAmountPositive}}
			if !reflect.DeepEqual(errs, want) {
				t.Errorf("got %v, want %v", errs, want)
			}
		})
	}

	tooLarge := []string{"100000000000000000", "1e30", "92233720368547758.08"}
	for _, amount := range tooLarge {
		t.Run("reject oversized "+amount, func(t *testing.T) {
			_, errs := ParseCreateInvoice(Form{"customerId": "c1", "amount": amount, "status": "paid"})
			want := FieldErrors{"amount": {MsgAmountTooLarge}}
			if !reflect.DeepEqual(errs, want) {
				t.Errorf("got %v, want %v", errs, want)
			}
		})
	}

	good := map[string]int64{
		"0.01":                 1,
		" 7 ":                  700,
		"99.99":                9999,
		"1e2":                  10000,
		"92233720368547758.07": math.MaxInt64,
	}
	for amount, cents := range good {
		t.Run("accept "+amount, func(t *testing.T) {
			in, errs := ParseUpdateInvoice(Form{"customerId": "c1", "amount": amount, "status": "paid"})
			if errs != nil {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if in.Cents() != cents {
				t.Errorf("Cents: got %d, want %d", in.Cents(), cents)
			}
		})
	}
}

func TestStatusRule(t *testing.T) {
	for _, status := range []string{"", "overdue", "Paid", " paid"} {
		_, errs := ParseCreateInvoice(Form{"customerId": "c1", "amount": "1", "status": status})
		want := FieldErrors{"status": {MsgStatus}}
		if !reflect.DeepEqual(errs, want) {
			t.Errorf("status %q: got %v, want %v", status, errs, want)
		}
	}
}

func TestParseInvoice(t *testing.T) {
	rec, errs := ParseInvoice(Form{
		"id": "inv-1", "customerId": "c1", "amount": "3.10", "status": "paid", "date": "2024-02-29",
	})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if rec.ID != "inv-1" || rec.Date != "2024-02-29" || rec.Cents() != 310 {
		t.Errorf("unexpected record: %+v", rec)
	}

	_, errs = ParseInvoice(Form{"customerId": "c1", "amount": "3", "status": "paid", "date": "2023-02-29"})
	want := FieldErrors{"id": {MsgRequired}, "date": {MsgInvalidDate}}
	if !reflect.DeepEqual(errs, want) {
		t.Errorf("got %v, want %v", errs, want)
	}
}

func TestSchemaOmit(t *testing.T) {
	if got := CreateInvoice.Fields(); !reflect.DeepEqual(got, []string{"customerId", "amount", "status"}) {
		t.Errorf("CreateInvoice fields: %v", got)
	}
	if got := InvoiceSchema.Fields(); len(got) != 5 {
		t.Errorf("InvoiceSchema should keep all fields, got %v", got)
	}
}

func TestFormFromValues(t *testing.T) {
	form := FormFromValues(url.Values{
		"status": {"pending", "paid"},
		"empty":  {},
	})
	if form["status"] != "paid" {
		t.Errorf("expected last value to win, got %q", form["status"])
	}
	if _, ok := form["empty"]; ok {
		t.Error("expected keys without values to be dropped")
	}
}
