package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/claimroute/internal/model"
)

func TestFraudKeywords_AllMatchesInListOrder(t *testing.T) {
	c := New()

	got := c.FraudKeywords("Story is inconsistent. This appears to be a staged accident.")
	assert.Equal(t, []string{"inconsistent", "staged", "stage"}, got)
}

func TestFraudKeywords_CaseInsensitive(t *testing.T) {
	c := New()

	assert.Equal(t, []string{"suspicious"}, c.FraudKeywords("SUSPICIOUS damage pattern"))
	assert.Equal(t, []string{"fake"}, c.FraudKeywords("(Fake) registration."))
}

func TestFraudKeywords_EmptyNarrative(t *testing.T) {
	c := New()

	got := c.FraudKeywords("   ")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestInjuryKeyword_FirstMatch(t *testing.T) {
	c := New()

	tests := []struct {
		name      string
		narrative string
		want      string
		wantOK    bool
	}{
		{"hospital", "Driver transported to hospital with neck injuries. Passenger suffered whiplash.", "hospital", true},
		{"injured before broken", "Driver injured with broken arm and contusions.", "injured", true},
		{"multi-word", "Taken to the Emergency Room for checks.", "emergency room", true},
		{"short keyword as word", "Seen in the ER, released.", "er", true},
		// "er" as a substring would flag almost every narrative: "driver", "after", "other"
		{"short keyword inside word", "Red light runner struck vehicle.", "", false},
		{"short keyword ending words", "The other driver left after the collision.", "", false},
		{"no injury", "Vehicle damaged while parked. Minor dent and scratches on door.", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.InjuryKeyword(tt.narrative)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClaimType(t *testing.T) {
	c := New()

	assert.Equal(t, model.ClaimTypeBodilyInjury, c.ClaimType("Passenger suffered WHIPLASH"))
	assert.Equal(t, model.ClaimTypePropertyDamage, c.ClaimType("Hail damage to roof"))
	assert.Equal(t, model.ClaimTypePropertyDamage, c.ClaimType(""))
}

func TestClassify(t *testing.T) {
	c := New()

	rec := &model.ClaimRecord{
		IncidentDescription: "Fraudulent claim suspected after ambulance report",
		// Other fields are never scanned
		PolicyholderName: "Staged Hospital",
	}

	got := c.Classify(rec)
	assert.True(t, got.FraudDetected)
	assert.Equal(t, []string{"fraud", "fraudulent", "suspect"}, got.FraudKeywords)
	assert.True(t, got.InjuryDetected)
	assert.Equal(t, "ambulance", got.InjuryKeyword)
	assert.Equal(t, model.ClaimTypeBodilyInjury, got.ClaimType())
}

func TestClassify_NilRecord(t *testing.T) {
	got := New().Classify(nil)
	assert.False(t, got.FraudDetected)
	assert.False(t, got.InjuryDetected)
	assert.Empty(t, got.FraudKeywords)
}

func TestNewWithKeywords(t *testing.T) {
	c := NewWithKeywords([]string{" Arson ", ""}, []string{"burn"})

	assert.Equal(t, []string{"arson"}, c.FraudKeywords("Possible ARSON"))
	kw, ok := c.InjuryKeyword("minor burns")
	assert.True(t, ok)
	assert.Equal(t, "burn", kw)
}
