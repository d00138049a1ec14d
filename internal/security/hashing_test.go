package security

import "testing"

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher(4) // min cost keeps the test fast
	hash, err := h.Hash([]byte("Senha123"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "Senha123" {
		t.Fatal("hash must not equal plaintext")
	}
	if err := h.Compare(hash, []byte("Senha123")); err != nil {
		t.Errorf("Compare with correct password: %v", err)
	}
	if err := h.Compare(hash, []byte("Senha124")); err == nil {
		t.Error("Compare should fail for wrong password")
	}
}

func TestNewHasher_CostClamping(t *testing.T) {
	if c := NewHasher(0).Cost; c < 4 {
		t.Errorf("cost = %d, want >= 4", c)
	}
	if c := NewHasher(100).Cost; c > 31 {
		t.Errorf("cost = %d, want <= 31", c)
	}
}

func TestAccessToken_RoundTripCorruption(t *testing.T) {
	c := NewAccessTokenCodec(testSecret, nil)
	token, err := c.Issue("12.345.678/0001-90")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	taxID, err := c.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if taxID != "12.345.678/0001-90" {
		t.Errorf("taxID = %q", taxID)
	}
	if _, err := c.Validate(token + "x"); err == nil {
		t.Error("Validate should reject a corrupted token")
	}
}

func TestPasswordPolicy(t *testing.T) {
	p := DefaultPasswordPolicy()
	cases := []struct {
		password string
		wantErr  error
	}{
		{"Senha123", nil},
		{"curta1", ErrPasswordTooShort},
		{"12345678", ErrPasswordNoLetter},
		{"senhasemnumero", ErrPasswordNoDigit},
	}
	for _, tc := range cases {
		if err := p.Check(tc.password); err != tc.wantErr {
			t.Errorf("Check(%q) = %v, want %v", tc.password, err, tc.wantErr)
		}
	}
}
