package auth

import (
	"strings"
	"testing"
)

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantErr bool
	}{
		{
			name:    "valid address",
			address: "test@example.com",
			wantErr: false,
		},
		{
			name:    "valid with subdomain",
			address: "test@mail.example.com",
			wantErr: false,
		},
		{
			name:    "valid with plus tag",
			address: "test+tag@example.com",
			wantErr: false,
		},
		{
			name:    "empty",
			address: "",
			wantErr: true,
		},
		{
			name:    "no at sign",
			address: "invalid.com",
			wantErr: true,
		},
		{
			name:    "no domain",
			address: "test@",
			wantErr: true,
		},
		{
			name:    "no local part",
			address: "@example.com",
			wantErr: true,
		},
		{
			name:    "too long",
			address: strings.Repeat("a", 300) + "@example.com",
			wantErr: true,
		},
		{
			name:    "spaces inside",
			address: "te st@example.com",
			wantErr: true,
		},
		{
			name:    "surrounding whitespace tolerated",
			address: "  test@example.com  ",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddress(tt.address)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAddress(%q) error = %v, wantErr %v", tt.address, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Test@Example.COM", "test@example.com"},
		{"  a@x.com ", "a@x.com"},
		{"a@x.com", "a@x.com"},
	}
	for _, tt := range tests {
		if got := NormalizeAddress(tt.in); got != tt.want {
			t.Errorf("NormalizeAddress(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
