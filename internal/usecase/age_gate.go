package usecase

import (
	"time"

	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

const MinimumAge = 18

// AgeGate owns the age-verified storage key.
type AgeGate struct {
	store domain.Storage
	log   *logrus.Logger
}

func NewAgeGate(store domain.Storage, logger *logrus.Logger) *AgeGate {
	return &AgeGate{store: store, log: logger}
}

func (g *AgeGate) Verified() bool {
	raw, found, err := g.store.Get(domain.KeyAgeVerified)
	if err != nil {
		g.log.Errorf("AgeGate: Failed to read verification flag: %v", err)
		return false
	}
	return found && string(raw) == "true"
}

// Verify records the verification when the visitor is at least MinimumAge
// years old on now.
func (g *AgeGate) Verify(birthDate, now time.Time) error {
	if birthDate.IsZero() {
		return domain.Invalid("Please select your date of birth.")
	}
	if AgeOn(birthDate, now) < MinimumAge {
		g.log.Info("AgeGate: Visitor is under the minimum age")
		return domain.Invalid("Sorry, you must be at least 18 years old to enter.")
	}
	if err := g.store.Set(domain.KeyAgeVerified, []byte("true")); err != nil {
		g.log.Errorf("AgeGate: Failed to persist verification flag: %v", err)
		return err
	}
	g.log.Info("AgeGate: Visitor verified")
	return nil
}

// AgeOn is the age in whole years on the calendar day of now, read in
// now's location. The birth date is taken in that location too.
func AgeOn(birthDate, now time.Time) int {
	birth := birthDate.In(now.Location())
	if birthDate.Hour() == 0 && birthDate.Minute() == 0 && birthDate.Second() == 0 && birthDate.Nanosecond() == 0 {
		// A date without a time of day names a calendar day, not an instant.
		y, m, d := birthDate.Date()
		birth = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	}
	ny, nm, nd := now.Date()
	by, bm, bd := birth.Date()
	age := ny - by
	if nm < bm || (nm == bm && nd < bd) {
		age--
	}
	return age
}
