package rules

import (
	"testing"

	"github.com/SketchTurnerrr/imago-server/internal/domain/enums"
)

func TestOppositeGender(t *testing.T) {
	cases := []struct {
		name   string
		in     enums.Gender
		want   enums.Gender
		wantOK bool
	}{
		{name: "male", in: enums.GenderMale, want: enums.GenderFemale, wantOK: true},
		{name: "female", in: enums.GenderFemale, want: enums.GenderMale, wantOK: true},
		{name: "empty", in: "", wantOK: false},
		{name: "unknown", in: "other", wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := OppositeGender(tc.in)
			if ok != tc.wantOK {
				t.Fatalf("unexpected ok: got %v want %v", ok, tc.wantOK)
			}
			if got != tc.want {
				t.Fatalf("unexpected gender: got %q want %q", got, tc.want)
			}
		})
	}
}
