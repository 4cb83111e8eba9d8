package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	apperrors "github.com/huddlehq/huddle-backend/pkg/errors"
	"github.com/labstack/echo/v4"
)

// bearerToken pulls the session token out of the Authorization header. An
// absent or malformed header yields the empty string, which the usecases
// reject as unauthenticated.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func fail(err error) error {
	return apperrors.ToHTTPError(err)
}
