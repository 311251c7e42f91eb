package validator

import (
	"testing"

	"github.com/competition-service/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_CompetitionCalculateEvent(t *testing.T) {
	valid := domain.CompetitionCalculateEvent{
		RequestID: uuid.New(),
		ProjectID: uuid.New(),
		Settings:  []domain.Setting{domain.SettingPlanfall},
	}
	assert.NoError(t, Validate(valid))

	missing := domain.CompetitionCalculateEvent{RequestID: uuid.New()}
	err := Validate(missing)
	require.Error(t, err)
	assert.Equal(t, "required", Details(err)["projectid"])

	bad := valid
	bad.Settings = []domain.Setting{"zukunft"}
	err = Validate(bad)
	require.Error(t, err)
	assert.Equal(t, "oneof=nullfall planfall", Details(err)["settings[0]"])
}
