package gateway

import (
	"testing"

	"github.com/campusbites/checkout/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapterLaunch(t *testing.T) {
	adapter := NewAdapter("rzp_test_key")

	session := models.GatewaySession{
		Key:      "rzp_live_key",
		OrderRef: "order_abc",
		Currency: "INR",
		Amount:   260,
	}

	launch, err := adapter.Launch(session, "Asha", "9999999999")
	require.NoError(t, err)

	assert.Equal(t, LaunchParams{
		Key:            "rzp_live_key",
		Amount:         260,
		Currency:       "INR",
		OrderRef:       "order_abc",
		Description:    "Complete your payment",
		PrefillName:    "Asha",
		PrefillContact: "9999999999",
	}, launch.Params)
	require.NotNil(t, launch.Events)
}

func TestAdapterLaunchFallsBackToConfiguredKey(t *testing.T) {
	adapter := NewAdapter("rzp_test_key")

	launch, err := adapter.Launch(models.GatewaySession{OrderRef: "order_abc", Amount: 100}, "Asha", "9999999999")
	require.NoError(t, err)
	assert.Equal(t, "rzp_test_key", launch.Params.Key)
	assert.Equal(t, "INR", launch.Params.Currency)
}

func TestAdapterLaunchFailures(t *testing.T) {
	tests := []struct {
		name    string
		keyID   string
		session models.GatewaySession
	}{
		{
			name:    "no_key_anywhere",
			session: models.GatewaySession{OrderRef: "order_abc", Amount: 100},
		},
		{
			name:    "missing_order_ref",
			keyID:   "rzp_test_key",
			session: models.GatewaySession{Amount: 100},
		},
		{
			name:    "non_positive_amount",
			keyID:   "rzp_test_key",
			session: models.GatewaySession{OrderRef: "order_abc", Amount: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAdapter(tt.keyID).Launch(tt.session, "Asha", "9999999999")
			assert.ErrorIs(t, err, models.ErrGatewayLaunch)
		})
	}
}

func TestEventsFireAtMostOnce(t *testing.T) {
	proof := models.VerificationProof{GatewayPaymentRef: "pay_1"}

	t.Run("success_then_dismiss", func(t *testing.T) {
		e := newEvents()
		require.True(t, e.Success(proof))
		assert.False(t, e.Dismiss())
		assert.False(t, e.Success(proof))

		got := <-e.SuccessC()
		assert.Equal(t, proof, got)
	})

	t.Run("dismiss_then_success", func(t *testing.T) {
		e := newEvents()
		require.True(t, e.Dismiss())
		assert.False(t, e.Success(proof))
		assert.False(t, e.Dismiss())

		select {
		case <-e.DismissC():
		default:
			t.Fatal("dismiss channel not resolved")
		}
	})
}
