package domain

import "testing"

func TestFlattenAddress(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "  1901 W Madison St, Phoenix, AZ 85009 ", want: "1901 W Madison St, Phoenix, AZ 85009"},
		{
			name: "object",
			in:   map[string]any{"street": "1901 W Madison St", "city": "Phoenix", "state": "AZ", "zip": "85009"},
			want: "1901 W Madison St, Phoenix, AZ 85009",
		},
		{
			name: "numeric_zip",
			in:   map[string]any{"street": "1 Main St", "city": "Austin", "state": "TX", "zip": 78701},
			want: "1 Main St, Austin, TX 78701",
		},
		{name: "partial_object", in: map[string]any{"city": "Phoenix"}, want: "Phoenix"},
		{name: "struct", in: Address{Street: "1 Main St", Zip: "10001"}, want: "1 Main St, 10001"},
		{name: "number_as_is", in: 42.0, want: "42"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FlattenAddress(tt.in); got != tt.want {
				t.Fatalf("FlattenAddress(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
