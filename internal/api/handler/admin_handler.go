package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hospital-device-risk/platform-api/internal/core/ports"
)

// AdminHandler exposes super-admin-only account management.
type AdminHandler struct {
	authService ports.AuthService
}

func NewAdminHandler(authService ports.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

type statusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type statusResponse struct {
	Username string `json:"username"`
	IsActive bool   `json:"is_active"`
}

// SetPrincipalStatus toggles is_active for a user or manufacturer. A
// deactivated principal fails authorization on its next request even while
// holding an unexpired token.
//
// @Summary      Activate or deactivate a principal
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string         true  "Principal username"
// @Param        body      body      statusRequest  true  "Desired status"
// @Success      200       {object}  statusResponse
// @Failure      401       {object}  map[string]string
// @Failure      403       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /admin/principals/{username}/status [patch]
func (h *AdminHandler) SetPrincipalStatus(c echo.Context) error {
	username := c.Param("username")

	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.SetPrincipalActive(c.Request().Context(), username, *req.IsActive); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, statusResponse{Username: username, IsActive: *req.IsActive})
}
