package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasirhub/pos-backend/pkg/e"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "integer", input: "1000", want: 1000},
		{name: "zero", input: "0", want: 0},
		{name: "trailing zero fraction", input: "1000.00", want: 1000},
		{name: "negative", input: "-5", wantErr: true},
		{name: "fractional", input: "10.5", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePrice(json.Number(tt.input))
			if tt.wantErr {
				require.ErrorIs(t, err, e.ErrInvalidPrice)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "typed product not found keeps id",
			err:      e.Wrap("op", &e.ProductNotFoundError{ProductID: 7}),
			wantCode: http.StatusNotFound,
			wantMsg:  "product 7 not found",
		},
		{
			name:     "typed order not found keeps id",
			err:      &e.OrderNotFoundError{OrderID: 3},
			wantCode: http.StatusNotFound,
			wantMsg:  "order 3 not found",
		},
		{
			name:     "validation",
			err:      e.NewValidationError("product_name"),
			wantCode: http.StatusUnprocessableEntity,
			wantMsg:  "validation failed: product_name",
		},
		{
			name:     "product in use",
			err:      e.Wrap("op", e.ErrProductInUse),
			wantCode: http.StatusBadRequest,
			wantMsg:  "product is referenced by existing orders",
		},
		{
			name:     "catalog unavailable",
			err:      e.ErrCatalogUnavailable,
			wantCode: http.StatusBadGateway,
			wantMsg:  "catalog service unavailable",
		},
		{
			name:     "unknown error is not leaked",
			err:      assert.AnError,
			wantCode: http.StatusInternalServerError,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := ToHTTPResponse(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}
