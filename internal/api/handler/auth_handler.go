package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hospital-device-risk/platform-api/internal/api/metrics"
	"github.com/hospital-device-risk/platform-api/internal/api/middleware"
	"github.com/hospital-device-risk/platform-api/internal/core/domain"
	"github.com/hospital-device-risk/platform-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerManufacturerRequest struct {
	Username    string `json:"username" validate:"required,min=3"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	CompanyName string `json:"company_name" validate:"required"`
}

type tokenResponse struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	Principal   *domain.Principal `json:"principal,omitempty"`
}

type registerResponse struct {
	ID string `json:"id"`
}

// Login authenticates a user or manufacturer and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	req, err := bindLogin(c)
	if err != nil {
		return err
	}

	token, p, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure", "unknown").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success", string(p.Kind)).Inc()

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer", Principal: p})
}

// LoginManufacturer authenticates against the manufacturer store only.
//
// @Summary      Manufacturer login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/manufacturers/login [post]
func (h *AuthHandler) LoginManufacturer(c echo.Context) error {
	req, err := bindLogin(c)
	if err != nil {
		return err
	}

	token, p, err := h.authService.LoginManufacturer(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure", "manufacturer").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success", string(p.Kind)).Inc()

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer", Principal: p})
}

// RegisterManufacturer creates a manufacturer account.
//
// @Summary      Register a manufacturer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerManufacturerRequest  true  "Manufacturer registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/manufacturers/register [post]
func (h *AuthHandler) RegisterManufacturer(c echo.Context) error {
	var req registerManufacturerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := h.authService.RegisterManufacturer(
		c.Request().Context(), req.Username, req.Email, req.Password, req.CompanyName)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			metrics.RegistrationsTotal.WithLabelValues("duplicate_username").Inc()
		case errors.Is(err, domain.ErrEmailTaken):
			metrics.RegistrationsTotal.WithLabelValues("duplicate_email").Inc()
		}
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues("created").Inc()

	return c.JSON(http.StatusCreated, registerResponse{ID: id})
}

// Me returns the principal resolved from the presented bearer token.
//
// @Summary      Current principal
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Principal
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.ErrInvalidCredentials
	}
	return c.JSON(http.StatusOK, p)
}

func bindLogin(c echo.Context) (loginRequest, error) {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return req, nil
}
