package entities_test

import (
	"testing"

	"github.com/skoushik/storefront-orders/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressInput_Normalize(t *testing.T) {
	testCases := []struct {
		name    string
		input   entities.AddressInput
		want    entities.Address
		wantErr error
	}{
		{
			name:  "free text with all segments",
			input: entities.FreeTextAddress("12 Elm St, Springfield, IL, 62704"),
			want: entities.Address{
				Street:  "12 Elm St",
				City:    "Springfield",
				State:   "IL",
				Pincode: "62704",
				Country: "India",
			},
		},
		{
			name:  "free text trims segments",
			input: entities.FreeTextAddress("  5 MG Road ,  Bengaluru ,Karnataka,560001 "),
			want: entities.Address{
				Street:  "5 MG Road",
				City:    "Bengaluru",
				State:   "Karnataka",
				Pincode: "560001",
				Country: "India",
			},
		},
		{
			name:  "free text with missing segments",
			input: entities.FreeTextAddress("12 Elm St, Springfield"),
			want: entities.Address{
				Street:  "12 Elm St",
				City:    "Springfield",
				Country: "India",
			},
		},
		{
			name:  "free text ignores extra segments",
			input: entities.FreeTextAddress("a, b, c, d, e, f"),
			want: entities.Address{
				Street:  "a",
				City:    "b",
				State:   "c",
				Pincode: "d",
				Country: "India",
			},
		},
		{
			name: "structured without country gets default",
			input: entities.StructuredAddress(entities.Address{
				Street:  "221B Baker Street",
				City:    "London",
				State:   "Greater London",
				Pincode: "NW1",
			}),
			want: entities.Address{
				Street:  "221B Baker Street",
				City:    "London",
				State:   "Greater London",
				Pincode: "NW1",
				Country: "India",
			},
		},
		{
			name: "structured keeps explicit country",
			input: entities.StructuredAddress(entities.Address{
				Street:  "1 Infinite Loop",
				Country: "USA",
			}),
			want: entities.Address{
				Street:  "1 Infinite Loop",
				Country: "USA",
			},
		},
		{
			name:    "zero input is rejected",
			input:   entities.AddressInput{},
			wantErr: entities.ErrInvalidAddress,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.input.Normalize()

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
