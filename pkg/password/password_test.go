package password

import (
	"strings"
	"testing"
)

func TestHash(t *testing.T) {
	password := "correcthorsebatterystaple"

	hash, err := Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// Check PHC format
	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Errorf("Hash() format invalid, got %s", hash)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Errorf("Hash() expected 6 parts, got %d", len(parts))
	}
}

func TestVerify(t *testing.T) {
	password := "mysecretpassword"

	hash, err := Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  error
	}{
		{
			name:     "correct password",
			hash:     hash,
			password: password,
			wantErr:  nil,
		},
		{
			name:     "wrong password",
			hash:     hash,
			password: "wrongpassword",
			wantErr:  ErrMismatch,
		},
		{
			name:     "invalid hash format",
			hash:     "notahash",
			password: password,
			wantErr:  ErrInvalidHash,
		},
		{
			name:     "empty password against valid hash",
			hash:     hash,
			password: "",
			wantErr:  ErrMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(tt.hash, tt.password)
			if err != tt.wantErr {
				t.Errorf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHashUniqueness(t *testing.T) {
	password := "samepassword"

	hash1, _ := Hash(password)
	hash2, _ := Hash(password)

	if hash1 == hash2 {
		t.Error("Hash() should produce unique hashes for same password (different salts)")
	}

	if err := Verify(hash1, password); err != nil {
		t.Errorf("hash1 verification failed: %v", err)
	}
	if err := Verify(hash2, password); err != nil {
		t.Errorf("hash2 verification failed: %v", err)
	}
}
