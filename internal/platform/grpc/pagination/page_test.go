package pagination

import "testing"

func TestClampPageSize(t *testing.T) {
	cfg := PageSizeConfig{Default: 50, Max: 200}
	tests := []struct {
		in   int32
		want int
	}{
		{in: 0, want: 50},
		{in: -3, want: 50},
		{in: 10, want: 10},
		{in: 500, want: 200},
	}
	for _, tt := range tests {
		if got := ClampPageSize(tt.in, cfg); got != tt.want {
			t.Fatalf("ClampPageSize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if got := ClampPageSize(0, PageSizeConfig{}); got != 1 {
		t.Fatalf("ClampPageSize with empty config = %d, want 1", got)
	}
}

func TestSeqTokenRoundTrip(t *testing.T) {
	if got := EncodeSeqToken(0); got != "" {
		t.Fatalf("EncodeSeqToken(0) = %q, want empty", got)
	}
	token := EncodeSeqToken(42)
	seq, err := DecodeSeqToken(token)
	if err != nil {
		t.Fatalf("DecodeSeqToken(%q): %v", token, err)
	}
	if seq != 42 {
		t.Fatalf("seq = %d, want 42", seq)
	}
	if seq, err := DecodeSeqToken(""); err != nil || seq != 0 {
		t.Fatalf("DecodeSeqToken(\"\") = %d, %v; want 0, nil", seq, err)
	}
}

func TestDecodeSeqTokenRejects(t *testing.T) {
	for _, token := range []string{"42", "seq:", "seq:abc", "seq:-1", "seq:0"} {
		if _, err := DecodeSeqToken(token); err == nil {
			t.Fatalf("DecodeSeqToken(%q) expected error", token)
		}
	}
}
