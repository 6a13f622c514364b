package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type paymentRequest struct {
	PaymentMethod string `validate:"required,payment_method"`
}

func TestPaymentMethodValidation(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		method  string
		wantErr bool
	}{
		{name: "card", method: "card"},
		{name: "cash", method: "cash"},
		{name: "online", method: "online"},
		{name: "unknown method", method: "bitcoin", wantErr: true},
		{name: "uppercase is rejected", method: "CARD", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(paymentRequest{PaymentMethod: tt.method})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
