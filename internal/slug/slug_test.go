package slug

import (
	"errors"
	"testing"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		wantErr error
	}{
		// Valid slugs
		{name: "single lowercase letter", slug: "a", wantErr: nil},
		{name: "single digit", slug: "5", wantErr: nil},
		{name: "simple word", slug: "laptop", wantErr: nil},
		{name: "with hyphens", slug: "apple-macbook-pro", wantErr: nil},
		{name: "digits and letters", slug: "m2-air", wantErr: nil},
		{name: "suffixed", slug: "apple-macbook-pro-0a1b2c3d", wantErr: nil},

		// Empty slug
		{name: "empty string", slug: "", wantErr: ErrEmpty},

		// Format violations
		{name: "uppercase letters", slug: "MacBook", wantErr: ErrFormat},
		{name: "starts with hyphen", slug: "-foo", wantErr: ErrFormat},
		{name: "ends with hyphen", slug: "foo-", wantErr: ErrFormat},
		{name: "only a hyphen", slug: "-", wantErr: ErrFormat},
		{name: "contains spaces", slug: "mac book", wantErr: ErrFormat},
		{name: "contains underscore", slug: "mac_book", wantErr: ErrFormat},
		{name: "contains period", slug: "v1.2", wantErr: ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormat(tt.slug)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateFormat(%q) = %v, want nil", tt.slug, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateFormat(%q) = %v, want error wrapping %v", tt.slug, err, tt.wantErr)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Apple MacBook Pro", want: "apple-macbook-pro"},
		{in: "  Leading and trailing  ", want: "leading-and-trailing"},
		{in: "Wi-Fi 6E -- Router!!", want: "wi-fi-6e-router"},
		{in: "Café Crème", want: "cafe-creme"},
		{in: "under_score/slash.dot", want: "under-score-slash-dot"},
		{in: "!!!", want: ""},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
