package handler

import (
	"github.com/dafibh/addressbook/addressbook-backend/internal/domain"
	"github.com/dafibh/addressbook/addressbook-backend/internal/middleware"
	"github.com/dafibh/addressbook/addressbook-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// UserHandler handles requests about the authenticated user
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// MyPage godoc
// @Summary Get the caller's page
// @Description The caller's user record, the identities sharing its nickname and one page of the caller's contacts
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param order query string false "Order column" Enums(id, name, email, date)
// @Param desc query bool false "Descending order"
// @Param limit query int false "Page size (default 100, max 1000)"
// @Param start query string false "Last seen value of the order column"
// @Param start_id query int false "Last seen contact id, breaks ties on start"
// @Success 200 {object} SuccessResponse{result=service.MyPage}
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /mypage [get]
func (h *UserHandler) MyPage(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return domain.ErrUnauthorized
	}

	input, err := listInput(c)
	if err != nil {
		return err
	}

	page, err := h.userService.MyPage(c.Request().Context(), auth0ID, middleware.IsFirstTime(c), input)
	if err != nil {
		return err
	}

	return Success(c, page)
}
