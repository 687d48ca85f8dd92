package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appErrors "github.com/noah-isme/payment-portal-api/pkg/errors"
	"github.com/noah-isme/payment-portal-api/pkg/identity"
)

const dateLayout = "2006-01-02"

// actorID resolves the attribution id from the raw bearer credential.
func actorID(c *gin.Context) string {
	id, ok := identity.FromAuthorizationHeader(c.GetHeader("Authorization"))
	if !ok {
		return ""
	}
	return id.String()
}

// uuidParam reads a path parameter that must be a UUID.
func uuidParam(c *gin.Context, name string) (string, error) {
	raw := c.Param(name)
	if _, err := uuid.Parse(raw); err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "invalid "+name).
			WithDetails(map[string]string{name: "must be a valid UUID"})
	}
	return raw, nil
}

func optionalUUID(field string, raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*raw)
	if _, err := uuid.Parse(v); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters").
			WithDetails(map[string]string{field: "must be a valid UUID"})
	}
	return &v, nil
}

func optionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*raw))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters").
			WithDetails(map[string]string{field: "must be a date in YYYY-MM-DD format"})
	}
	return &t, nil
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func bindError(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
}
