package router

import (
	"net/http"

	"personscrud/internal/handler"

	"github.com/labstack/echo/v4"
)

// registerPersonRoutes wires the person CRUD endpoints.
func registerPersonRoutes(e *echo.Echo, h *handler.Handlers) {
	g := e.Group("/persons")

	g.POST("", handler.Handle(h.Person.Handler, h.Person.CreatePerson, http.StatusCreated, &handler.CreatePersonRequest{}))
	g.GET("", handler.Handle(h.Person.Handler, h.Person.ListPersons, http.StatusOK, &handler.ListPersonsRequest{}))
	g.GET("/export", handler.HandleFile(h.Person.Handler, h.Person.ExportPersons, http.StatusOK, &handler.ExportPersonsRequest{}, "persons.csv", "text/csv"))
	g.GET("/:id", handler.Handle(h.Person.Handler, h.Person.GetPerson, http.StatusOK, &handler.GetPersonRequest{}))
	g.PUT("/:id", handler.Handle(h.Person.Handler, h.Person.UpdatePerson, http.StatusOK, &handler.UpdatePersonRequest{}))
	g.DELETE("/:id", handler.Handle(h.Person.Handler, h.Person.DeletePerson, http.StatusOK, &handler.DeletePersonRequest{}))
}
