package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dafibh/addressbook/addressbook-backend/internal/domain"
	"github.com/dafibh/addressbook/addressbook-backend/internal/middleware"
	"github.com/dafibh/addressbook/addressbook-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// ContactHandler handles contact-related HTTP requests
type ContactHandler struct {
	contactService *service.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// CreateContact godoc
// @Summary Create a contact
// @Description Create a contact owned by the caller. Fields may be sent as query parameters or as a multipart form with an optional image.
// @Tags contacts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Contact name"
// @Param email formData string true "Contact email"
// @Param image formData file false "Contact picture (JPEG, PNG or WebP)"
// @Success 200 {object} SuccessResponse{result=int64}
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /contacts/new [post]
func (h *ContactHandler) CreateContact(c echo.Context) error {
	image, err := readImage(c)
	if err != nil {
		return err
	}

	id, err := h.contactService.CreateContact(c.Request().Context(), service.CreateContactInput{
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		AuthorID: middleware.GetAuth0ID(c),
		Image:    image,
	})
	if err != nil {
		return err
	}

	return Success(c, id)
}

// GetContact godoc
// @Summary Get a contact
// @Tags contacts
// @Produce json
// @Param id path int true "Contact ID"
// @Success 200 {object} SuccessResponse{result=domain.Contact}
// @Failure 500 {object} ErrorResponse
// @Router /contacts/get/{id} [get]
func (h *ContactHandler) GetContact(c echo.Context) error {
	id, err := parseContactID(c)
	if err != nil {
		return err
	}

	contact, err := h.contactService.GetContact(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return Success(c, contact)
}

// DeleteContact godoc
// @Summary Delete a contact
// @Description Delete a contact owned by the caller. Contacts of other users are reported as not found.
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Success 200 {object} SuccessResponse{result=bool}
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /contacts/delete/{id} [get]
func (h *ContactHandler) DeleteContact(c echo.Context) error {
	id, err := parseContactID(c)
	if err != nil {
		return err
	}

	if err := h.contactService.DeleteContact(c.Request().Context(), id, middleware.GetAuth0ID(c)); err != nil {
		return err
	}

	return Success(c, true)
}

// UpdateContact godoc
// @Summary Update a contact
// @Description Partially update a contact owned by the caller. Omitted or empty fields keep their value.
// @Tags contacts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Param name formData string false "New name"
// @Param email formData string false "New email"
// @Param image formData file false "New picture"
// @Success 200 {object} SuccessResponse{result=bool}
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /contacts/update/{id} [post]
func (h *ContactHandler) UpdateContact(c echo.Context) error {
	id, err := parseContactID(c)
	if err != nil {
		return err
	}

	image, err := readImage(c)
	if err != nil {
		return err
	}

	_, err = h.contactService.UpdateContact(c.Request().Context(), id, middleware.GetAuth0ID(c), service.UpdateContactInput{
		Name:  optionalValue(c, "name"),
		Email: optionalValue(c, "email"),
		Image: image,
	})
	if err != nil {
		return err
	}

	return Success(c, true)
}

// ListContacts godoc
// @Summary List contacts
// @Description Keyset-paginated listing. Pass the last seen value of the order column as start (and its id as start_id) to fetch the next page.
// @Tags contacts
// @Produce json
// @Param order query string false "Order column" Enums(id, name, email, date)
// @Param desc query bool false "Descending order"
// @Param limit query int false "Page size (default 100, max 1000)"
// @Param start query string false "Last seen value of the order column"
// @Param start_id query int false "Last seen contact id, breaks ties on start"
// @Param author query string false "Only contacts of this owner"
// @Param mine query bool false "Only the caller's contacts"
// @Success 200 {object} SuccessResponse{result=[]domain.Contact}
// @Failure 500 {object} ErrorResponse
// @Router /contacts/list [get]
func (h *ContactHandler) ListContacts(c echo.Context) error {
	input, err := listInput(c)
	if err != nil {
		return err
	}

	input.AuthorID = c.QueryParam("author")
	if isTruthy(c.QueryParam("mine")) {
		auth0ID := middleware.GetAuth0ID(c)
		if auth0ID == "" {
			return domain.ErrUnauthorized
		}
		input.AuthorID = auth0ID
	}

	contacts, err := h.contactService.ListContacts(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return Success(c, contacts)
}

// listInput reads the pagination parameters shared by /contacts/list and /mypage
func listInput(c echo.Context) (service.ListContactsInput, error) {
	input := service.ListContactsInput{
		OrderBy:    c.QueryParam("order"),
		Descending: isTruthy(c.QueryParam("desc")),
		Start:      c.QueryParam("start"),
		StartID:    c.QueryParam("start_id"),
	}

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return service.ListContactsInput{}, domain.NewValidationError("limit", "limit must be an integer")
		}
		input.Limit = limit
	}

	return input, nil
}

func parseContactID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, domain.NewValidationError("id", "invalid contact id")
	}
	return id, nil
}

// optionalValue returns nil for absent and empty values
func optionalValue(c echo.Context, name string) *string {
	value := c.FormValue(name)
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

// readImage returns the uploaded image, or nil when the request carries none
func readImage(c echo.Context) (*service.ImageUpload, error) {
	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, domain.NewValidationError("image", "invalid multipart form: "+err.Error())
	}

	if file.Size > service.MaxImageSize {
		return nil, service.ErrImageTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, domain.NewStorageError("failed to open uploaded image", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, service.MaxImageSize+1))
	if err != nil {
		return nil, domain.NewStorageError("failed to read uploaded image", err)
	}

	return &service.ImageUpload{Data: data, Filename: file.Filename}, nil
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "desc":
		return true
	default:
		return false
	}
}
