package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{
			name:     "empty string returns local",
			timezone: "",
			wantErr:  false,
		},
		{
			name:     "Local returns local",
			timezone: "Local",
			wantErr:  false,
		},
		{
			name:     "valid timezone UTC",
			timezone: "UTC",
			wantErr:  false,
		},
		{
			name:     "valid timezone America/New_York",
			timezone: "America/New_York",
			wantErr:  false,
		},
		{
			name:     "valid timezone Europe/London",
			timezone: "Europe/London",
			wantErr:  false,
		},
		{
			name:     "valid timezone Asia/Tokyo",
			timezone: "Asia/Tokyo",
			wantErr:  false,
		},
		{
			name:     "invalid timezone",
			timezone: "Invalid/Timezone",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestInTimezone(t *testing.T) {
	instant := time.Date(2026, 3, 1, 22, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		timezone string
		wantHour int
	}{
		{
			name:     "UTC keeps the hour",
			timezone: "UTC",
			wantHour: 22,
		},
		{
			name:     "Asia/Tokyo is ahead",
			timezone: "Asia/Tokyo",
			wantHour: 7,
		},
		{
			name:     "America/New_York is behind",
			timezone: "America/New_York",
			wantHour: 17,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InTimezone(instant, tt.timezone)
			if got.Hour() != tt.wantHour {
				t.Errorf("InTimezone() hour = %d, want %d", got.Hour(), tt.wantHour)
			}
			if !got.Equal(instant) {
				t.Errorf("InTimezone() changed the instant: %v", got)
			}
		})
	}
}

func TestInTimezone_InvalidFallsBackToLocal(t *testing.T) {
	instant := time.Date(2026, 3, 1, 22, 30, 0, 0, time.UTC)
	got := InTimezone(instant, "Invalid/Timezone")
	if got.Location() != time.Local {
		t.Errorf("InTimezone() location = %v, want Local", got.Location())
	}
}

func TestSameLocalDay(t *testing.T) {
	a := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	if !SameLocalDay(a, b, "UTC") {
		t.Error("expected both instants on the same UTC day")
	}
	// 20:00 UTC is already the next day in Tokyo
	if SameLocalDay(a, b, "Asia/Tokyo") {
		t.Error("expected instants on different Tokyo days")
	}
	if got := LocalDate(b, "Asia/Tokyo"); got != "2026-03-02" {
		t.Errorf("LocalDate() = %q, want %q", got, "2026-03-02")
	}
}

func TestValidateTimezone(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		want     bool
	}{
		{
			name:     "empty string is valid",
			timezone: "",
			want:     true,
		},
		{
			name:     "Local is valid",
			timezone: "Local",
			want:     true,
		},
		{
			name:     "UTC is valid",
			timezone: "UTC",
			want:     true,
		},
		{
			name:     "America/New_York is valid",
			timezone: "America/New_York",
			want:     true,
		},
		{
			name:     "Europe/London is valid",
			timezone: "Europe/London",
			want:     true,
		},
		{
			name:     "Asia/Tokyo is valid",
			timezone: "Asia/Tokyo",
			want:     true,
		},
		{
			name:     "Invalid/Timezone is invalid",
			timezone: "Invalid/Timezone",
			want:     false,
		},
		{
			name:     "random string is invalid",
			timezone: "not-a-timezone",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateTimezone(tt.timezone); got != tt.want {
				t.Errorf("ValidateTimezone() = %v, want %v", got, tt.want)
			}
		})
	}
}
