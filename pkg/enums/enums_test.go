package enums

import "testing"

func TestParsePaymentMethod(t *testing.T) {
	for _, raw := range []string{"CASH", "QR", "ONLINE"} {
		method, err := ParsePaymentMethod(raw)
		if err != nil {
			t.Fatalf("ParsePaymentMethod(%q) error: %v", raw, err)
		}
		if !method.IsValid() {
			t.Fatalf("parsed method %q should be valid", method)
		}
	}
	if _, err := ParsePaymentMethod("cash"); err == nil {
		t.Fatal("lowercase method should be rejected, the wire format is uppercase")
	}
}

func TestParsePaymentStatus(t *testing.T) {
	for _, raw := range []string{"UNPAID", "PARTIAL", "PAID"} {
		status, err := ParsePaymentStatus(raw)
		if err != nil {
			t.Fatalf("ParsePaymentStatus(%q) error: %v", raw, err)
		}
		if !status.IsValid() {
			t.Fatalf("parsed status %q should be valid", status)
		}
	}
	if _, err := ParsePaymentStatus("REFUNDED"); err == nil {
		t.Fatal("unknown status should be rejected")
	}
}

func TestItemTypeIsClosed(t *testing.T) {
	if _, err := ParseItemType("SERVICE_CHARGE"); err == nil {
		t.Fatal("expected unknown item type to be rejected")
	}
	if !ItemTypeProduct.IsValid() {
		t.Fatal("PRODUCT should be valid")
	}
}

func TestCustodyAndStageValidity(t *testing.T) {
	if !CustodyStatusWaiterHeld.IsValid() {
		t.Fatal("WAITER_HELD should be valid")
	}
	if CustodyStatus("LOST").IsValid() {
		t.Fatal("unknown custody status should be invalid")
	}
	if !CheckoutStageAwaitingTender.IsValid() {
		t.Fatal("awaiting_tender should be valid")
	}
	if CheckoutStage("undo").IsValid() {
		t.Fatal("unknown stage should be invalid")
	}
}
