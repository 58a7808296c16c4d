package main

import "testing"

func TestNormalizeImageURL(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/uploads/abc/pet.png", "/uploads/abc/pet.png"},
		{"images/dog.png", "/images/dog.png"},
		{"dog.png", "/images/dog.png"},
	} {
		if got := normalizeImageURL(tc.in); got != tc.want {
			t.Errorf("normalizeImageURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
