package server

import (
	"fmt"
	"net/http"
	"testing"

	authdomain "github.com/smallbiznis/karatledger/internal/auth/domain"
	billdomain "github.com/smallbiznis/karatledger/internal/bill/domain"
	customerdomain "github.com/smallbiznis/karatledger/internal/customer/domain"
	loandomain "github.com/smallbiznis/karatledger/internal/loan/domain"
	"github.com/smallbiznis/karatledger/internal/party"
	"github.com/smallbiznis/karatledger/internal/paymethod"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"credentials", authdomain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"session", authdomain.ErrSessionExpired, http.StatusUnauthorized, msgNotAuthorized},
		{"duplicate", customerdomain.ErrDuplicateNumber, http.StatusConflict, msgDuplicate},
		{"party", party.ErrNotFound, http.StatusNotFound, "Party not found"},
		{"not found", fmt.Errorf("load: %w", loandomain.ErrNotFound), http.StatusNotFound, ""},
		{"rule", loandomain.ErrNotMetalLoan, http.StatusBadRequest, "This is not a metal loan"},
		{"finalized", billdomain.ErrAlreadyFinalized, http.StatusBadRequest, "Bill is already finalized"},
		{"validation", customerdomain.ErrInvalidPhone, http.StatusBadRequest, "invalid phone"},
		{"method", paymethod.ErrInvalidMethod, http.StatusBadRequest, ""},
		{"pinned", withMessage(billdomain.ErrFinalizedImmutable, http.StatusBadRequest, "Cannot delete finalized bill"), http.StatusBadRequest, "Cannot delete finalized bill"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, msgServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.False(t, payload.Success)
			if tc.message != "" {
				assert.Equal(t, tc.message, payload.Error)
			}
		})
	}
}

func TestValidationErrorField(t *testing.T) {
	assert.Equal(t, "phone", validationErrorField("invalid_phone"))
	assert.Equal(t, "date_range", validationErrorField("missing_date_range"))
	assert.Equal(t, "bill_items", validationErrorField("bill_items_required"))
	assert.Equal(t, "request", validationErrorField("invalid_request"))
	assert.Equal(t, "invalid phone", validationErrorMessage("invalid_phone"))
}
