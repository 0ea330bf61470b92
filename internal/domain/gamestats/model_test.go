package gamestats

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func TestBuildStatID(t *testing.T) {
	require.Equal(t, "00-0033873_2023_01_KC_DET", BuildStatID("00-0033873", "2023_01_KC_DET"))
}

func TestRowValidation(t *testing.T) {
	validate := validator.New()

	valid := Row{
		StatID:       "p1_2023_01_KC_DET",
		PlayerID:     "p1",
		GameID:       "2023_01_KC_DET",
		RushingYards: -7,
	}
	require.NoError(t, validate.Struct(valid), "negative yardage is a legal value")

	missingKey := valid
	missingKey.GameID = ""
	require.Error(t, validate.Struct(missingKey), "game id is required")

	negativeCounter := valid
	negativeCounter.PassingAttempts = -1
	require.Error(t, validate.Struct(negativeCounter), "counters may not be negative")

	negativeSnaps := valid
	snaps := -5
	negativeSnaps.SnapsPlayed = &snaps
	require.Error(t, validate.Struct(negativeSnaps), "snap counts may not be negative")

	nilSnaps := valid
	nilSnaps.SnapsPlayed = nil
	require.NoError(t, validate.Struct(nilSnaps), "snaps may be absent")
}
