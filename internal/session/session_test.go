package session

import (
	"strings"
	"testing"
	"time"
)

func testCodec() *Codec {
	return NewCodec("test-secret", time.Hour, 24*time.Hour)
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := testCodec()
	in := Session{
		UserID:   "u1",
		Admin:    true,
		Remember: true,
		Cart:     map[string]int{"p1": 2, "p2": 1},
	}

	tok, err := codec.Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := codec.Decode(tok)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.UserID != in.UserID || !out.Admin || !out.Remember {
		t.Fatalf("got %+v", out)
	}
	if len(out.Cart) != 2 || out.Cart["p1"] != 2 || out.Cart["p2"] != 1 {
		t.Fatalf("cart=%v", out.Cart)
	}
}

func TestCodec_AnonymousSessionHasEmptyCart(t *testing.T) {
	codec := testCodec()
	tok, err := codec.Encode(Session{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := codec.Decode(tok)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Authenticated() {
		t.Fatalf("anonymous session reports authenticated")
	}
	if out.Cart == nil {
		t.Fatalf("cart must never be nil after decode")
	}
}

func TestCodec_RejectsTamperedToken(t *testing.T) {
	codec := testCodec()
	tok, err := codec.Encode(Session{UserID: "u1"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// flip a character inside the payload segment
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape")
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)

	if _, err := codec.Decode(strings.Join(parts, ".")); err == nil {
		t.Fatalf("tampered token accepted")
	}
}

func TestCodec_RejectsWrongSecret(t *testing.T) {
	tok, err := testCodec().Encode(Session{UserID: "u1"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	other := NewCodec("other-secret", time.Hour, 24*time.Hour)
	if _, err := other.Decode(tok); err == nil {
		t.Fatalf("token signed with a different secret accepted")
	}
}

func TestCodec_RejectsExpiredToken(t *testing.T) {
	expired := NewCodec("test-secret", -time.Minute, -time.Minute)
	tok, err := expired.Encode(Session{UserID: "u1"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := testCodec().Decode(tok); err == nil {
		t.Fatalf("expired token accepted")
	}
}

func TestCookieMaxAge(t *testing.T) {
	codec := testCodec()
	if got := codec.CookieMaxAge(Session{}); got != 0 {
		t.Fatalf("session cookie max-age=%d, want 0", got)
	}
	if got := codec.CookieMaxAge(Session{Remember: true}); got != int((24 * time.Hour).Seconds()) {
		t.Fatalf("remember cookie max-age=%d", got)
	}
}
