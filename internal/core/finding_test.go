package core

import "testing"

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		raw     string
		want    Severity
		wantErr bool
	}{
		{"critical", SeverityCritical, false},
		{"high", SeverityHigh, false},
		{"info", SeverityInfo, false},
		{"", SeverityInfo, false}, // missing defaults to info
		{"urgent", "", true},      // unknown must not produce a finding
		{"CRITICAL", "", true},    // values are case-sensitive on the wire
	}

	for _, tt := range tests {
		got, err := ParseSeverity(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSeverity(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseSeverity(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if got, err := ParseCategory(""); err != nil || got != CategoryQuality {
		t.Errorf("ParseCategory(\"\") = %v, %v; want quality default", got, err)
	}
	if _, err := ParseCategory("nonsense"); err == nil {
		t.Errorf("expected error for unknown category")
	}
	for _, c := range []string{"best_practice", "security", "cost", "performance", "quality", "hallucination", "testing", "compliance"} {
		if _, err := ParseCategory(c); err != nil {
			t.Errorf("ParseCategory(%q) unexpected error: %v", c, err)
		}
	}
}

func TestMaxSeverity_Commutative(t *testing.T) {
	if MaxSeverity(SeverityMedium, SeverityHigh) != SeverityHigh {
		t.Errorf("max(medium, high) should be high")
	}
	if MaxSeverity(SeverityHigh, SeverityMedium) != SeverityHigh {
		t.Errorf("max(high, medium) should be high")
	}
	if MaxSeverity(SeverityInfo, SeverityInfo) != SeverityInfo {
		t.Errorf("max(info, info) should be info")
	}
}

func TestSeverityRankOrdering(t *testing.T) {
	order := AllSeverities()
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() <= order[i].Rank() {
			t.Errorf("severity %s should outrank %s", order[i-1], order[i])
		}
	}
}

func TestFinding_Blocking(t *testing.T) {
	for _, tt := range []struct {
		sev  Severity
		want bool
	}{
		{SeverityCritical, true},
		{SeverityHigh, true},
		{SeverityMedium, false},
		{SeverityLow, false},
		{SeverityInfo, false},
	} {
		f := Finding{Severity: tt.sev}
		if got := f.Blocking(); got != tt.want {
			t.Errorf("Blocking() with %s = %v, want %v", tt.sev, got, tt.want)
		}
	}
}
