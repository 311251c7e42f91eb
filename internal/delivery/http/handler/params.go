package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/pkg/errors"
)

// projectIDParam разбирает :project_id
func projectIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Params("project_id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.ErrInvalidProjectID.WithDetails(map[string]interface{}{"project_id": raw})
	}
	return id, nil
}

func settingValue(raw string) (domain.Setting, error) {
	s, err := domain.ParseSetting(raw)
	if err != nil {
		return "", errors.ErrInvalidSetting.WithDetails(map[string]interface{}{"setting": raw})
	}
	return s, nil
}
