package validate_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/bookstore-catalog/pkg/validate"
)

type payload struct {
	Name  string           `json:"name" validate:"notblank,max=5"`
	Code  *string          `json:"code" validate:"omitempty,len=3"`
	Price *decimal.Decimal `json:"price" validate:"required,decimal_max=10.00"`
	Owner uuid.UUID        `json:"owner" validate:"required"`
	Skip  string           `json:"-"`
}

func TestCustomValidator_Validate(t *testing.T) {
	t.Parallel()
	price := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}
	code := func(s string) *string { return &s }
	owner := uuid.New()

	tests := []struct {
		name string
		in   payload
		want validate.ValidationErrors
	}{
		{
			name: "ok",
			in:   payload{Name: "abc", Code: code("xyz"), Price: price("10.00"), Owner: owner},
		},
		{
			name: "ok. omitted optional",
			in:   payload{Name: "abc", Price: price("0"), Owner: owner},
		},
		{
			name: "blank and missing",
			in:   payload{Name: " \t"},
			want: validate.ValidationErrors{
				"name":  "provide name",
				"price": "provide price",
				"owner": "provide owner",
			},
		},
		{
			name: "bounds",
			in:   payload{Name: "abcdef", Code: code("toolong"), Price: price("10.01"), Owner: owner},
			want: validate.ValidationErrors{
				"name":  "name max length is 5 characters",
				"code":  "code length is 3 characters",
				"price": "price must be less than or equal to 10.00",
			},
		},
	}
	v := validate.NewCustomValidator()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := v.Validate(tt.in)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			var got validate.ValidationErrors
			require.True(t, errors.As(err, &got))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Parallel()
	err := validate.ValidationErrors{"b": "second", "a": "first"}
	require.Equal(t, "validation failed: a: first; b: second", err.Error())
	require.True(t, strings.HasPrefix(err.Error(), "validation failed"))
}
