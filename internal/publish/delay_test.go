package publish

import (
	"errors"
	"testing"
	"time"

	"spacebook/internal/model"
)

func TestParseDelay(t *testing.T) {
	cases := []struct {
		name    string
		h, m, s string
		want    time.Duration
		field   string
	}{
		{name: "zero", h: "0", m: "0", s: "0", want: 0},
		{name: "seconds only", h: "0", m: "0", s: "2", want: 2 * time.Second},
		{name: "mixed", h: "1", m: "30", s: "15", want: time.Hour + 30*time.Minute + 15*time.Second},
		{name: "empty is zero", h: "", m: "", s: "45", want: 45 * time.Second},
		{name: "whitespace", h: " 2 ", m: "0", s: "0", want: 2 * time.Hour},
		{name: "negative hours", h: "-1", m: "0", s: "0", field: "hours"},
		{name: "non-numeric minutes", h: "0", m: "five", s: "0", field: "minutes"},
		{name: "fractional seconds", h: "0", m: "0", s: "1.5", field: "seconds"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDelay(tc.h, tc.m, tc.s)
			if tc.field != "" {
				var ve *model.ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if ve.Field != tc.field {
					t.Fatalf("expected field %q, got %q", tc.field, ve.Field)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
