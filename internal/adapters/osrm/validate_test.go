package osrm

import "testing"

func TestValidCoordinateList(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"1,1;2,2", true},
		{"-1.5,100.25", true},
		{"0,0", true},
		{"-112.074,33.4484;-111.94,33.4255;-111.8413,33.3062", true},
		{"", false},
		{"1,1;../../../etc", false},
		{"1,1 ;2,2", false},
		{"1,1;", false},
		{";1,1", false},
		{"1;1", false},
		{"1,1;2,2?alt=yes", false},
		{"1,1\n2,2", false},
		{"1.,1", false},
		{"a,b", false},
	}

	for _, tc := range cases {
		if got := ValidCoordinateList(tc.in); got != tc.want {
			t.Errorf("ValidCoordinateList(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
