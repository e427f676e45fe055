package services

import "testing"

func TestNextRollNumber(t *testing.T) {
	tests := []struct {
		name    string
		last    string
		want    string
		wantErr bool
	}{
		{"first ever", "", "STU001", false},
		{"simple increment", "STU001", "STU002", false},
		{"mid range", "STU047", "STU048", false},
		{"padding boundary", "STU099", "STU100", false},
		{"grows past padding", "STU999", "STU1000", false},
		{"wide suffix", "STU1000", "STU1001", false},
		{"wrong prefix", "EMP001", "", true},
		{"no suffix", "STU", "", true},
		{"non-numeric suffix", "STUabc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRollNumber(tt.last)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NextRollNumber(%q) = %q, want error", tt.last, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NextRollNumber(%q) returned error: %v", tt.last, err)
			}
			if got != tt.want {
				t.Fatalf("NextRollNumber(%q) = %q, want %q", tt.last, got, tt.want)
			}
		})
	}
}

func TestNextEmployeeID(t *testing.T) {
	got, err := NextEmployeeID("")
	if err != nil {
		t.Fatalf("NextEmployeeID(\"\") returned error: %v", err)
	}
	if got != "EMP001" {
		t.Fatalf("NextEmployeeID(\"\") = %q, want EMP001", got)
	}

	got, err = NextEmployeeID("EMP009")
	if err != nil {
		t.Fatalf("NextEmployeeID returned error: %v", err)
	}
	if got != "EMP010" {
		t.Fatalf("NextEmployeeID(\"EMP009\") = %q, want EMP010", got)
	}
}

func TestSequentialSuffixesAreGapless(t *testing.T) {
	last := ""
	for i := 1; i <= 150; i++ {
		next, err := NextRollNumber(last)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if next <= last && len(next) <= len(last) {
			t.Fatalf("step %d: %q does not advance past %q", i, next, last)
		}
		last = next
	}
	if last != "STU150" {
		t.Fatalf("after 150 allocations last = %q, want STU150", last)
	}
}
