package mathx

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(15, 0, 10); got != 10 {
		t.Fatalf("Clamp high = %d", got)
	}
	if got := Clamp(-3, 0, 10); got != 0 {
		t.Fatalf("Clamp low = %d", got)
	}
	if got := Clamp(5, 10, 0); got != 5 { // swapped bounds
		t.Fatalf("Clamp swapped = %d", got)
	}
}

func TestBetween(t *testing.T) {
	if !Between(uint16(0x21), uint16(0x20), uint16(0x23)) {
		t.Fatal("0x21 not between")
	}
	if Between(uint16(0x24), uint16(0x20), uint16(0x23)) {
		t.Fatal("0x24 between")
	}
}

func TestIntDiv(t *testing.T) {
	if got := CeilDiv(uint32(1000), 3); got != 334 {
		t.Fatalf("CeilDiv = %d", got)
	}
	if got := RoundDiv(uint32(5), 2); got != 3 {
		t.Fatalf("RoundDiv = %d", got)
	}
	if got := CeilDiv(uint32(9), 0); got != 0 {
		t.Fatalf("CeilDiv by zero = %d", got)
	}
}
