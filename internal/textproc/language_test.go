package textproc

import "testing"

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"I am extremely happy with the new leave policy, thank you HR!", "en"},
		{"Saya tidak puas dengan kebijakan cuti yang baru ini", "id"},
		{"Je ne suis pas content avec la nouvelle politique de congés, merci", "fr"},
		{"El empleado está muy contento con la nueva política de permisos, gracias", "es"},
	}
	for _, tc := range cases {
		lang, conf := DetectLanguage(tc.in)
		if lang != tc.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tc.in, lang, tc.want)
		}
		if conf <= 0 || conf > 1 {
			t.Errorf("confidence %f out of range for %q", conf, tc.in)
		}
	}
}

func TestDetectLanguageEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "12345 67890"} {
		lang, conf := DetectLanguage(in)
		if lang != "unknown" || conf != 0 {
			t.Fatalf("DetectLanguage(%q) = (%q, %f), want (unknown, 0)", in, lang, conf)
		}
	}
}
