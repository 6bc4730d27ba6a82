package triage

import (
	"encoding/json"
	"testing"
)

func TestStatus_Transitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPendiente, StatusEnAtencion, true},
		{StatusPendiente, StatusAtendido, true},
		{StatusPendiente, StatusDerivado, true},
		{StatusEnAtencion, StatusAtendido, true},
		{StatusEnAtencion, StatusDerivado, true},
		{StatusEnAtencion, StatusPendiente, false},
		{StatusAtendido, StatusEnAtencion, false},
		{StatusAtendido, StatusPendiente, false},
		{StatusAtendido, StatusDerivado, false},
		{StatusDerivado, StatusAtendido, false},
		{StatusPendiente, StatusPendiente, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	t.Parallel()

	if StatusPendiente.Terminal() || StatusEnAtencion.Terminal() {
		t.Error("PENDIENTE and EN_ATENCION must not be terminal")
	}
	if !StatusAtendido.Terminal() || !StatusDerivado.Terminal() {
		t.Error("ATENDIDO and DERIVADO must be terminal")
	}
}

func TestStatus_Valid(t *testing.T) {
	t.Parallel()

	for _, s := range []Status{StatusPendiente, StatusEnAtencion, StatusAtendido, StatusDerivado} {
		if !s.Valid() {
			t.Errorf("Valid(%s) = false, want true", s)
		}
	}
	if Status("CANCELADO").Valid() {
		t.Error("Valid(CANCELADO) = true, want false")
	}
}

func TestLevel_Ordering(t *testing.T) {
	t.Parallel()

	if !LevelI.MoreUrgentThan(LevelV) {
		t.Error("I must be more urgent than V")
	}
	if LevelIII.MoreUrgentThan(LevelII) {
		t.Error("III must not be more urgent than II")
	}
	if LevelII.MoreUrgentThan(LevelII) {
		t.Error("a level is not more urgent than itself")
	}
}

func TestLevel_Labels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level   Level
		numeral string
		label   string
	}{
		{LevelI, "I", "Resuscitation"},
		{LevelII, "II", "Emergency"},
		{LevelIII, "III", "Urgency"},
		{LevelIV, "IV", "Minor Urgency"},
		{LevelV, "V", "Non-urgent"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.numeral {
			t.Errorf("String(%d) = %q, want %q", tt.level, got, tt.numeral)
		}
		if got := tt.level.Label(); got != tt.label {
			t.Errorf("Label(%s) = %q, want %q", tt.numeral, got, tt.label)
		}
	}
}

func TestLevel_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(LevelII)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"II"` {
		t.Errorf("marshal = %s, want %q", b, `"II"`)
	}

	var lv Level
	if err := json.Unmarshal([]byte(`"IV"`), &lv); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if lv != LevelIV {
		t.Errorf("unmarshal = %s, want IV", lv)
	}

	if err := json.Unmarshal([]byte(`"VI"`), &lv); err == nil {
		t.Error("expected error for unknown numeral VI")
	}
}

func TestParseLevel_Unknown(t *testing.T) {
	t.Parallel()

	if _, err := ParseLevel("0"); err == nil {
		t.Error("expected error for unknown level")
	}
}
