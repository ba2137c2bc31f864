// internal/elster/catalog_test.go
package elster

import "testing"

func testDefs() []SignalDefinition {
	return []SignalDefinition{
		{Index: 0x000B, Name: "GERAETE_ID", DisplayName: "DEVICE_ID", Type: TypeDevID},
		{Index: 0x0016, Name: "RUECKLAUFISTTEMP", DisplayName: "RETURN_TEMP", Type: TypeDecVal},
		{Index: 0x0126, Name: "AUSSENTEMP", DisplayName: "OUTSIDE_TEMP", Type: TypeDecVal},
	}
}

func TestCatalog_Lookups(t *testing.T) {
	c, err := NewCatalog(testDefs())
	if err != nil {
		t.Fatalf("NewCatalog err=%v", err)
	}

	if d := c.ByIndex(0x0126); d.DisplayName != "OUTSIDE_TEMP" {
		t.Errorf("ByIndex(0x0126)=%q", d.DisplayName)
	}
	if d := c.ByName("AUSSENTEMP"); d.Index != 0x0126 {
		t.Errorf("ByName(native)=%d", d.Index)
	}
	if d := c.ByName("OUTSIDE_TEMP"); d.Index != 0x0126 {
		t.Errorf("ByName(display)=%d", d.Index)
	}
	if c.Len() != 3 {
		t.Errorf("Len=%d, want 3", c.Len())
	}
}

func TestCatalog_MissReturnsSentinel(t *testing.T) {
	c, err := NewCatalog(testDefs())
	if err != nil {
		t.Fatalf("NewCatalog err=%v", err)
	}

	d := c.ByIndex(0x1ABC)
	if d.Index != 0 || d.Type != TypeNone {
		t.Fatalf("miss returned %+v, want sentinel", d)
	}
	if c.Known(0x1ABC) {
		t.Error("Known must be false for a miss")
	}
	if !c.Known(0x0126) {
		t.Error("Known must be true for a hit")
	}

	if d := c.ByName("NO_SUCH_SIGNAL"); d.Type != TypeNone {
		t.Fatalf("name miss returned %+v, want sentinel", d)
	}
}

func TestCatalog_DuplicateIndexRejected(t *testing.T) {
	defs := append(testDefs(), SignalDefinition{Index: 0x0126, Name: "DUP", Type: TypeInteger})
	if _, err := NewCatalog(defs); err == nil {
		t.Fatal("expected duplicate-index error")
	}
}

func TestCatalog_IndexRangeEnforced(t *testing.T) {
	defs := []SignalDefinition{{Index: 0x2000, Name: "TOO_BIG", Type: TypeInteger}}
	if _, err := NewCatalog(defs); err == nil {
		t.Fatal("expected out-of-range error")
	}
}
