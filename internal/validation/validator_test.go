package validation

import "testing"

func TestNormalizeChannelName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"dallas", "dallas"},
		{"#dallas", "dallas"},
		{"  #Dallas  ", "dallas"},
		{"FrankerZ", "frankerz"},
	}
	for _, tc := range cases {
		if got := NormalizeChannelName(tc.in); got != tc.want {
			t.Errorf("NormalizeChannelName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateChannelName(t *testing.T) {
	valid := []string{"dallas", "dallas_tv", "x", "user123"}
	for _, name := range valid {
		if err := ValidateChannelName(name); err != nil {
			t.Errorf("ValidateChannelName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "has space", "UPPER", "emoji🙂", "waaaaaaaaaaaaaaaaaaaaaaaaaytoolong"}
	for _, name := range invalid {
		if err := ValidateChannelName(name); err == nil {
			t.Errorf("ValidateChannelName(%q) = nil, want error", name)
		}
	}
}

func TestValidateNick(t *testing.T) {
	if err := ValidateNick("Ronni"); err != nil {
		t.Errorf("ValidateNick(Ronni) = %v, want nil", err)
	}
	if err := ValidateNick("  "); err == nil {
		t.Error("ValidateNick(blank) = nil, want error")
	}
}
