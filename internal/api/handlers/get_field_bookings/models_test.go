package get_field_bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

func TestToServiceRequest(t *testing.T) {
	merchant := domain.Actor{UserID: 5, Role: domain.RoleMerchant}

	req, err := ToServiceRequest(merchant, 3, "2025-03-01", "2025-03-31", "true")
	require.NoError(t, err)
	assert.Equal(t, merchant, req.Actor)
	assert.Equal(t, int64(3), req.FieldID)
	assert.Equal(t, "2025-03-01", types.FormatDate(req.StartDate))
	assert.Equal(t, "2025-03-31", types.FormatDate(req.EndDate))
	assert.True(t, req.IncludeInactive)

	req, err = ToServiceRequest(merchant, 3, "2025-03-01", "2025-03-31", "")
	require.NoError(t, err)
	assert.False(t, req.IncludeInactive)

	_, err = ToServiceRequest(merchant, 3, "", "2025-03-31", "")
	assert.Error(t, err)
	_, err = ToServiceRequest(merchant, 3, "2025-03-01", "2025-03-31", "maybe")
	assert.Error(t, err)
}
