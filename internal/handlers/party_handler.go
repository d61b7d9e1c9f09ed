package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"siteworks/internal/models"
	"siteworks/internal/services"
)

type PartyHandler struct {
	parties *services.PartyService
}

func NewPartyHandler(parties *services.PartyService) *PartyHandler {
	return &PartyHandler{parties: parties}
}

// @Summary      Register a party
// @Description  Creates a vendor, labour, subcontractor or client record
// @Tags         Parties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      models.PartyRequest  true  "Party"
// @Success      201      {object}  models.Party
// @Failure      400      {object}  map[string]string
// @Router       /parties [post]
func (h *PartyHandler) Create(c *gin.Context) {
	var req models.PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.parties.Create(&req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary      List parties
// @Tags         Parties
// @Produce      json
// @Security     BearerAuth
// @Param        type  query     string  false  "Filter by type"
// @Success      200   {array}   models.Party
// @Router       /parties [get]
func (h *PartyHandler) List(c *gin.Context) {
	out, err := h.parties.List(c.Query("type"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary      Get a party
// @Tags         Parties
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Party ID"
// @Success      200  {object}  models.Party
// @Failure      404  {object}  map[string]string
// @Router       /parties/{id} [get]
func (h *PartyHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	p, err := h.parties.Get(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Update a party
// @Tags         Parties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                  true  "Party ID"
// @Param        request  body      models.PartyRequest  true  "Party"
// @Success      200      {object}  models.Party
// @Failure      404      {object}  map[string]string
// @Router       /parties/{id} [put]
func (h *PartyHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req models.PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.parties.Update(id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Delete a party
// @Tags         Parties
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Party ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /parties/{id} [delete]
func (h *PartyHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.parties.Delete(id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Party deleted"})
}

func (h *PartyHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPartyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "party not found"})
	case errors.Is(err, services.ErrInvalidPartyType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid party type"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "party operation failed"})
	}
}
