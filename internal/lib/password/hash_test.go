package password

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestGetHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "regular password",
			password: "password123",
		},
		{
			name:     "password with special chars",
			password: "p@ssw0rd!@#$%^&*()",
		},
		{
			name:     "short password",
			password: "short",
		},
		{
			name:     "longer than bcrypt limit",
			password: strings.Repeat("a", 73),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := h.GetHash(tt.password)

			if (err != nil) != tt.wantErr {
				t.Errorf("GetHash() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if gotHash == "" || gotHash == tt.password {
				t.Error("GetHash() returned unusable hash")
			}
			if err = h.CompareHash(gotHash, tt.password); err != nil {
				t.Errorf("generated hash doesn't work with original password: %v", err)
			}
		})
	}
}

func TestGetHash_Salted(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	first, err := h.GetHash("password1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := h.GetHash("password1")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("hashes of the same password must differ")
	}
}

func TestCompareHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	correctHash, err := h.GetHash("correct_password")
	if err != nil {
		t.Fatalf("failed to create hash: %v", err)
	}

	tests := []struct {
		name         string
		hash         string
		password     string
		wantErr      bool
		wantMismatch bool
	}{
		{name: "correct password", hash: correctHash, password: "correct_password"},
		{name: "wrong password", hash: correctHash, password: "wrong_password", wantErr: true, wantMismatch: true},
		{name: "empty password", hash: correctHash, password: "", wantErr: true, wantMismatch: true},
		{name: "invalid hash", hash: "not-a-bcrypt-hash", password: "correct_password", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.CompareHash(tt.hash, tt.password)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CompareHash() error = %v, wantErr %v", err, tt.wantErr)
			}
			if errors.Is(err, ErrMismatch) != tt.wantMismatch {
				t.Errorf("CompareHash() mismatch = %v, want %v", errors.Is(err, ErrMismatch), tt.wantMismatch)
			}
		})
	}
}

func TestNewHasher_CostBounds(t *testing.T) {
	if got := NewHasher(0).cost; got != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want %d", got, bcrypt.DefaultCost)
	}
	if got := NewHasher(bcrypt.MaxCost + 1).cost; got != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want %d", got, bcrypt.DefaultCost)
	}
}
