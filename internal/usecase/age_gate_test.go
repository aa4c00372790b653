package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeOn(t *testing.T) {
	now := date(2026, time.June, 15)
	assert.Equal(t, 18, AgeOn(date(2008, time.June, 15), now))
	assert.Equal(t, 17, AgeOn(date(2008, time.June, 16), now))
	assert.Equal(t, 17, AgeOn(date(2008, time.December, 1), now))
	assert.Equal(t, 30, AgeOn(date(1996, time.January, 31), now))
}

func TestAgeOnUsesTheClockLocation(t *testing.T) {
	nairobi := time.FixedZone("EAT", 3*60*60)
	// 00:30 on the birthday in Nairobi is still the day before in UTC.
	now := time.Date(2026, time.June, 15, 0, 30, 0, 0, nairobi)

	assert.Equal(t, 18, AgeOn(date(2008, time.June, 15), now))
	assert.Equal(t, 17, AgeOn(date(2008, time.June, 16), now))

	// A birth instant is read on the clock's calendar: 22:00 UTC on the
	// 14th is already the 15th in Nairobi.
	instant := time.Date(2008, time.June, 14, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, 18, AgeOn(instant, now))
	assert.Equal(t, 17, AgeOn(instant, time.Date(2026, time.June, 14, 23, 0, 0, 0, nairobi)))
}

func TestAgeGateVerify(t *testing.T) {
	store := repository.NewMemoryStore()
	gate := NewAgeGate(store, quietLogger())
	now := date(2026, time.June, 15)

	assert.False(t, gate.Verified())
	assert.ErrorIs(t, gate.Verify(time.Time{}, now), domain.ErrValidation)
	assert.ErrorIs(t, gate.Verify(date(2008, time.June, 16), now), domain.ErrValidation)
	assert.False(t, gate.Verified())

	require.NoError(t, gate.Verify(date(2008, time.June, 15), now))
	assert.True(t, gate.Verified())

	raw, found, err := store.Get(domain.KeyAgeVerified)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "true", string(raw))
}
