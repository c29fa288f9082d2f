package language

import "testing"

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Category
	}{
		{"georgian greeting", "გამარჯობა", Georgian},
		{"georgian sentence", "როგორ ხარ დღეს?", Georgian},
		{"english only", "hello there", English},
		{"empty", "", Mixed},
		{"digits and punctuation", "12345 !?", Mixed},
		{"equal counts", "აბ ab", Mixed},
		{"georgian majority over latin", "გამარჯობა hi", Georgian},
		{"latin majority over georgian", "hello world ok აბ", English},
		{"cyrillic counts as neither", "привет", Mixed},
		{"emoji ignored", "🤖🤖🤖 ok", English},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Detect(tc.text); got != tc.want {
				t.Fatalf("Detect(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}
