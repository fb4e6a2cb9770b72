package handler

import (
	"personscrud/internal/repository"
	"personscrud/internal/server"
	"personscrud/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// PersonHandler exposes the person CRUD endpoints.
type PersonHandler struct {
	Handler
	services *service.Services
}

// NewPersonHandler constructs a PersonHandler.
func NewPersonHandler(s *server.Server, services *service.Services) *PersonHandler {
	return &PersonHandler{
		Handler:  NewHandler(s),
		services: services,
	}
}

// --- Request payloads --------------------------------------------------------

// CreatePersonRequest is the JSON body for POST /persons.
type CreatePersonRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	DNI       string `json:"dni" validate:"required,max=32"`
	Address   string `json:"address" validate:"required,max=255"`
}

func (r *CreatePersonRequest) Validate() error {
	return validate.Struct(r)
}

// UpdatePersonRequest is the JSON body for PUT /persons/:id plus the id
// path parameter.
type UpdatePersonRequest struct {
	ID        int64  `param:"id" validate:"required,gt=0"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	DNI       string `json:"dni" validate:"required,max=32"`
	Address   string `json:"address" validate:"required,max=255"`
}

func (r *UpdatePersonRequest) Validate() error {
	return validate.Struct(r)
}

// GetPersonRequest carries the id path parameter for GET /persons/:id.
type GetPersonRequest struct {
	ID int64 `param:"id" validate:"required,gt=0"`
}

func (r *GetPersonRequest) Validate() error {
	return validate.Struct(r)
}

// DeletePersonRequest carries the id path parameter for DELETE /persons/:id.
type DeletePersonRequest struct {
	ID int64 `param:"id" validate:"required,gt=0"`
}

func (r *DeletePersonRequest) Validate() error {
	return validate.Struct(r)
}

// ListPersonsRequest is the (empty) payload for GET /persons.
type ListPersonsRequest struct{}

func (r *ListPersonsRequest) Validate() error {
	return nil
}

// ExportPersonsRequest is the (empty) payload for GET /persons/export.
type ExportPersonsRequest struct{}

func (r *ExportPersonsRequest) Validate() error {
	return nil
}

// --- Response payloads -------------------------------------------------------

// CreatePersonResponse carries the id SQLite assigned to the new row.
type CreatePersonResponse struct {
	ID int64 `json:"id"`
}

// MessageResponse is the generic acknowledgment body for updates and
// deletes.
type MessageResponse struct {
	Message string `json:"message"`
}

// --- Endpoints ---------------------------------------------------------------

// CreatePerson inserts a new person. Responds 201 with the new id, or
// 400 when the payload is invalid or the DNI already exists.
func (h *PersonHandler) CreatePerson(c echo.Context, req *CreatePersonRequest) (CreatePersonResponse, error) {
	id, err := h.services.Person.Create(c.Request().Context(), repository.PersonInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DNI:       req.DNI,
		Address:   req.Address,
	})
	if err != nil {
		return CreatePersonResponse{}, err
	}
	return CreatePersonResponse{ID: id}, nil
}

// ListPersons returns every person, ordered by id.
func (h *PersonHandler) ListPersons(c echo.Context, req *ListPersonsRequest) ([]repository.Person, error) {
	return h.services.Person.List(c.Request().Context())
}

// GetPerson returns a single person by id, or 404.
func (h *PersonHandler) GetPerson(c echo.Context, req *GetPersonRequest) (repository.Person, error) {
	return h.services.Person.Get(c.Request().Context(), req.ID)
}

// UpdatePerson overwrites a person's fields. Responds with an
// acknowledgment message, or 404 when the id does not exist.
func (h *PersonHandler) UpdatePerson(c echo.Context, req *UpdatePersonRequest) (MessageResponse, error) {
	err := h.services.Person.Update(c.Request().Context(), req.ID, repository.PersonInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DNI:       req.DNI,
		Address:   req.Address,
	})
	if err != nil {
		return MessageResponse{}, err
	}
	return MessageResponse{Message: "Person updated"}, nil
}

// DeletePerson removes a person. Responds with an acknowledgment
// message, or 404 when the id does not exist.
func (h *PersonHandler) DeletePerson(c echo.Context, req *DeletePersonRequest) (MessageResponse, error) {
	if err := h.services.Person.Delete(c.Request().Context(), req.ID); err != nil {
		return MessageResponse{}, err
	}
	return MessageResponse{Message: "Person deleted"}, nil
}

// ExportPersons returns the full person table as a CSV download.
func (h *PersonHandler) ExportPersons(c echo.Context, req *ExportPersonsRequest) ([]byte, error) {
	return h.services.Person.ExportCSV(c.Request().Context())
}
