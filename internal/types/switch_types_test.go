package types

import "testing"

func TestParseSwitchType(t *testing.T) {
	for _, valid := range []string{"client", "workspace", "monitor"} {
		st, err := ParseSwitchType(valid)
		if err != nil {
			t.Errorf("%q should parse: %v", valid, err)
		}
		if string(st) != valid {
			t.Errorf("expected %q, got %q", valid, st)
		}
	}

	for _, invalid := range []string{"", "window", "Client", "monitors"} {
		if _, err := ParseSwitchType(invalid); err == nil {
			t.Errorf("%q should not parse", invalid)
		}
	}
}

func TestNewCommand_Normalization(t *testing.T) {
	cmd := NewCommand(false, 0, false, false)
	if cmd.Offset != 1 {
		t.Errorf("offset below 1 must normalize to 1, got %d", cmd.Offset)
	}
	if cmd.Direction != DirForward {
		t.Errorf("expected forward, got %s", cmd.Direction)
	}

	cmd = NewCommand(true, -5, true, false)
	if cmd.Offset != 1 || cmd.Direction != DirBackward || !cmd.SameWorkspace {
		t.Errorf("unexpected command: %+v", cmd)
	}
}

func TestDirectionSign(t *testing.T) {
	if DirForward.Sign() != 1 || DirBackward.Sign() != -1 {
		t.Error("direction signs are wrong")
	}
}

func TestActive_Union(t *testing.T) {
	if !ActiveUnknown().IsUnknown() {
		t.Error("unknown active should report IsUnknown")
	}
	if ActiveClient("0x1").IsUnknown() {
		t.Error("client active should not report IsUnknown")
	}
	if got := ActiveWorkspace(3).String(); got != "workspace(3)" {
		t.Errorf("unexpected string: %q", got)
	}
}
