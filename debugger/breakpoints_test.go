package debugger

import "testing"

func TestBreakpointManagerAddBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()

	bp := bm.AddBreakpoint(0x1000, false)

	if bp == nil {
		t.Fatal("AddBreakpoint returned nil")
	}
	if bp.ID != 1 {
		t.Errorf("expected ID 1, got %d", bp.ID)
	}
	if bp.Address != 0x1000 {
		t.Errorf("expected address 0x1000, got 0x%x", bp.Address)
	}
	if !bp.Enabled {
		t.Error("breakpoint should be enabled by default")
	}
	if bp.Temporary {
		t.Error("breakpoint should not be temporary")
	}
	if bp.HitCount != 0 {
		t.Errorf("initial hit count should be 0, got %d", bp.HitCount)
	}
}

func TestBreakpointManagerAddMultiple(t *testing.T) {
	bm := NewBreakpointManager()

	bp1 := bm.AddBreakpoint(0x1000, false)
	bp2 := bm.AddBreakpoint(0x2000, false)

	if bp1.ID == bp2.ID {
		t.Error("breakpoint IDs should be unique")
	}
	if bm.Count() != 2 {
		t.Errorf("expected 2 breakpoints, got %d", bm.Count())
	}
}

func TestBreakpointManagerAddDuplicateUpdatesExisting(t *testing.T) {
	bm := NewBreakpointManager()

	bp1 := bm.AddBreakpoint(0x1000, false)
	bp2 := bm.AddBreakpoint(0x1000, true)

	if bp1.ID != bp2.ID {
		t.Error("duplicate address should update the existing breakpoint")
	}
	if !bp2.Temporary {
		t.Error("temporary flag was not updated")
	}
}

func TestBreakpointManagerDeleteBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()

	bp := bm.AddBreakpoint(0x1000, false)

	if err := bm.DeleteBreakpoint(bp.ID); err != nil {
		t.Fatalf("DeleteBreakpoint failed: %v", err)
	}
	if bm.GetBreakpoint(0x1000) != nil {
		t.Error("breakpoint not deleted")
	}
	if err := bm.DeleteBreakpoint(999); err == nil {
		t.Error("expected error deleting a non-existent breakpoint")
	}
}

func TestBreakpointManagerEnableDisable(t *testing.T) {
	bm := NewBreakpointManager()

	bp := bm.AddBreakpoint(0x1000, false)

	if err := bm.DisableBreakpoint(bp.ID); err != nil {
		t.Fatalf("DisableBreakpoint failed: %v", err)
	}
	if bp.Enabled {
		t.Error("breakpoint not disabled")
	}

	if err := bm.EnableBreakpoint(bp.ID); err != nil {
		t.Fatalf("EnableBreakpoint failed: %v", err)
	}
	if !bp.Enabled {
		t.Error("breakpoint not enabled")
	}
}

func TestBreakpointManagerGetBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()

	bm.AddBreakpoint(0x1000, false)
	bm.AddBreakpoint(0x2000, false)

	bp := bm.GetBreakpoint(0x1000)
	if bp == nil {
		t.Fatal("GetBreakpoint returned nil")
	}
	if bp.Address != 0x1000 {
		t.Errorf("wrong breakpoint returned: got 0x%x, want 0x1000", bp.Address)
	}
	if bm.GetBreakpoint(0x3000) != nil {
		t.Error("GetBreakpoint should return nil for a non-existent address")
	}
}

func TestBreakpointManagerGetAllBreakpoints(t *testing.T) {
	bm := NewBreakpointManager()

	bm.AddBreakpoint(0x1000, false)
	bm.AddBreakpoint(0x2000, false)
	bm.AddBreakpoint(0x3000, false)

	if all := bm.GetAllBreakpoints(); len(all) != 3 {
		t.Errorf("expected 3 breakpoints, got %d", len(all))
	}
}

func TestBreakpointManagerClear(t *testing.T) {
	bm := NewBreakpointManager()

	bm.AddBreakpoint(0x1000, false)
	bm.AddBreakpoint(0x2000, false)
	bm.Clear()

	if bm.Count() != 0 {
		t.Errorf("expected 0 breakpoints after clear, got %d", bm.Count())
	}
}

func TestBreakpointTemporary(t *testing.T) {
	bm := NewBreakpointManager()

	bp := bm.AddBreakpoint(0x1000, true)
	if !bp.Temporary {
		t.Error("breakpoint should be temporary")
	}
}

func TestBreakpointHitCount(t *testing.T) {
	bm := NewBreakpointManager()

	bp := bm.AddBreakpoint(0x1000, false)
	if bp.HitCount != 0 {
		t.Errorf("initial hit count = %d, want 0", bp.HitCount)
	}

	bm.ProcessHit(0x1000)
	bm.ProcessHit(0x1000)

	if got := bm.GetBreakpoint(0x1000).HitCount; got != 2 {
		t.Errorf("hit count = %d, want 2", got)
	}
}

func TestProcessHitIgnoresDisabledBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()

	bp := bm.AddBreakpoint(0x1000, false)
	_ = bm.DisableBreakpoint(bp.ID)

	if hit := bm.ProcessHit(0x1000); hit != nil {
		t.Error("ProcessHit should not fire for a disabled breakpoint")
	}
}

func TestProcessHitDeletesTemporaryBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()

	bm.AddBreakpoint(0x1000, true)
	if hit := bm.ProcessHit(0x1000); hit == nil {
		t.Fatal("expected the temporary breakpoint to fire once")
	}
	if bm.GetBreakpoint(0x1000) != nil {
		t.Error("temporary breakpoint should be removed after firing")
	}
}
