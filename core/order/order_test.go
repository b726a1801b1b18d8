package order

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2025-03-14", "2025-03-14"},
		{"2025/03/14", "2025-03-14"},
		{"3/14/2025", "2025-03-14"},
		{"Mar 14, 2025", "2025-03-14"},
		{"2025-03-14 08:30:00", "2025-03-14"},
		{"45730", "2025-03-14"}, // Excel serial
	}
	for _, c := range cases {
		got, err := ParseDate(c.in)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", c.in, err)
		}
		if got.String() != c.want {
			t.Fatalf("ParseDate(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParseDateRejects(t *testing.T) {
	for _, in := range []string{"", "not a date", "5000", "2025"} {
		if _, err := ParseDate(in); err == nil {
			t.Fatalf("ParseDate(%q): expected error", in)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, time.March, 14)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-03-14"` {
		t.Fatalf("marshal = %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Fatalf("round trip mismatch: %s", back)
	}
}

func TestDateJSONZero(t *testing.T) {
	var d Date
	b, _ := json.Marshal(d)
	if string(b) != `""` {
		t.Fatalf("zero date marshal = %s", b)
	}
	var back Date
	if err := json.Unmarshal([]byte(`""`), &back); err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
	if !back.IsZero() {
		t.Fatalf("expected zero date")
	}
}

func TestCanonicalColumn(t *testing.T) {
	cases := map[string]string{
		"客户名称":         ColClient,
		" Client ":     ColClient,
		"CAD":          ColCAD,
		"数量":           ColQty,
		"Qty":          ColQty,
		"到货日期":         ColArrival,
		"Arrival_Date": ColArrival,
		"arrival date": ColArrival,
	}
	for in, want := range cases {
		got, ok := CanonicalColumn(in)
		if !ok || got != want {
			t.Fatalf("CanonicalColumn(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := CanonicalColumn("remarks"); ok {
		t.Fatalf("unexpected alias match")
	}
}

func TestValidateBatch(t *testing.T) {
	good := Order{CAD: "CAD-001", Qty: 10, Arrival: Today()}

	if err := ValidateBatch("客户A", []Order{good}); err != nil {
		t.Fatalf("valid batch rejected: %v", err)
	}
	if err := ValidateBatch("", []Order{good}); err != ErrNoClient {
		t.Fatalf("expected ErrNoClient, got %v", err)
	}

	bad := good
	bad.CAD = "  "
	err := ValidateBatch("客户A", []Order{good, bad})
	re, ok := err.(*RowError)
	if !ok || re.Row != 2 || re.Field != ColCAD {
		t.Fatalf("expected CAD RowError on row 2, got %v", err)
	}

	bad = good
	bad.Qty = -1
	err = ValidateBatch("客户A", []Order{bad})
	re, ok = err.(*RowError)
	if !ok || re.Row != 1 || re.Field != ColQty {
		t.Fatalf("expected Qty RowError on row 1, got %v", err)
	}

	bad = good
	bad.Arrival = Date{}
	if err := ValidateBatch("客户A", []Order{bad}); err == nil {
		t.Fatalf("missing date accepted")
	}
}

func TestValidateBatchZeroQtyAllowed(t *testing.T) {
	// Manual entries allow qty 0; only split rows require >= 1.
	e := Order{CAD: "CAD-001", Qty: 0, Arrival: Today()}
	if err := ValidateBatch("客户A", []Order{e}); err != nil {
		t.Fatalf("qty 0 rejected: %v", err)
	}
}
