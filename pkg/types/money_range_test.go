package types

import (
	"encoding/json"
	"testing"
)

func TestMoneyRangeJSONRoundTrip(t *testing.T) {
	in := MoneyRange{Min: 12000, Max: 35000}
	buf, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(buf) != "[12000,35000]" {
		t.Fatalf("unexpected encoding %s", buf)
	}

	var out MoneyRange
	if err := json.Unmarshal(buf, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v != %+v", out, in)
	}
}

func TestMoneyRangeValid(t *testing.T) {
	if !(MoneyRange{Min: 0, Max: 0}).Valid() {
		t.Fatal("zero range should be valid")
	}
	if (MoneyRange{Min: 10, Max: 5}).Valid() {
		t.Fatal("inverted range should be invalid")
	}
	if (MoneyRange{Min: -1, Max: 5}).Valid() {
		t.Fatal("negative range should be invalid")
	}
}

func TestMoneyRangeMidpoint(t *testing.T) {
	r := MoneyRange{Min: 10000, Max: 20000}
	if r.Midpoint() != 15000 {
		t.Fatalf("unexpected midpoint %d", r.Midpoint())
	}
}
