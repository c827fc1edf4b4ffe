//go:build integration

package browser

import (
	"context"
	"rental-autotest/internal/config"
	"rental-autotest/internal/site"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Run with: go test -tags=integration ./internal/browser/...
// Requires network access to the demo site.

func openSite(t *testing.T) (*Session, func()) {
	t.Helper()

	conf, err := config.GetConfig()
	require.NoError(t, err)
	conf.BrowserConfig.Headless = true

	m := NewManager(Params{Config: conf, Logger: zap.NewNop()})
	ctx := context.Background()

	opened, err := m.Open(ctx)
	if err != nil {
		t.Skipf("browser not available: %v", err)
	}

	session := opened.(*Session)
	require.NoError(t, session.Navigate(ctx, conf.BrowserConfig.TargetURL))
	time.Sleep(2 * time.Second)

	return session, func() {
		assert.NoError(t, session.Close(ctx))
		assert.NoError(t, m.Stop(ctx))
	}
}

func TestIntegration_PricingTable(t *testing.T) {
	session, done := openSite(t)
	defer done()

	ctx := context.Background()
	require.NoError(t, session.Click(ctx, site.SectionAnchor(site.SectionPricing)))

	want := map[string]string{
		site.CarSUV:    "$22",
		site.CarVAN:    "$35",
		site.CarLuxury: "$48",
	}

	for carType, price := range want {
		n, ok := site.Ordinal(carType)
		require.True(t, ok)

		got, err := session.TextContent(ctx, site.PriceCell(n))
		require.NoError(t, err)
		assert.Equal(t, price, got, carType)
	}
}

func TestIntegration_ResetClearsBookingForm(t *testing.T) {
	session, done := openSite(t)
	defer done()

	ctx := context.Background()
	require.NoError(t, session.Click(ctx, site.SectionAnchor(site.SectionBooking)))
	require.NoError(t, session.Fill(ctx, site.BookingName, "Keerthana"))
	require.NoError(t, session.Fill(ctx, site.BookingEmail, "keer@example.com"))
	require.NoError(t, session.SelectOption(ctx, site.BookingCarType, site.CarVAN))
	require.NoError(t, session.Check(ctx, site.BookingCDW))
	require.NoError(t, session.Check(ctx, site.BookingTerms))

	require.NoError(t, session.Click(ctx, site.BookingReset))

	name, err := session.InputValue(ctx, site.BookingName)
	require.NoError(t, err)
	assert.Empty(t, name)

	email, err := session.InputValue(ctx, site.BookingEmail)
	require.NoError(t, err)
	assert.Empty(t, email)

	carType, err := session.InputValue(ctx, site.BookingCarType)
	require.NoError(t, err)
	assert.Empty(t, carType)

	for _, sel := range []string{site.BookingCDW, site.BookingTerms} {
		checked, err := session.IsChecked(ctx, sel)
		require.NoError(t, err)
		assert.False(t, checked, sel)
	}
}
