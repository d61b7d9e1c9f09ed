package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"siteworks/internal/models"
	"siteworks/internal/pdf"
	"siteworks/internal/services"
)

type ProjectHandler struct {
	projects *services.ProjectService
	reports  pdf.Generator
}

func NewProjectHandler(projects *services.ProjectService, reports pdf.Generator) *ProjectHandler {
	return &ProjectHandler{projects: projects, reports: reports}
}

// @Summary      Create a project
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      models.ProjectRequest  true  "Project"
// @Success      201      {object}  models.Project
// @Failure      400      {object}  map[string]string
// @Router       /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req models.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.projects.Create(currentUserID(c), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary      List my projects
// @Tags         Projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Project
// @Router       /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	out, err := h.projects.ListForUser(currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary      Get a project
// @Tags         Projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  models.Project
// @Failure      404  {object}  map[string]string
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	p, err := h.projects.Get(id, currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Update a project
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                    true  "Project ID"
// @Param        request  body      models.ProjectRequest  true  "Project"
// @Success      200      {object}  models.Project
// @Failure      403      {object}  map[string]string
// @Router       /projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req models.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.projects.Update(id, currentUserID(c), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Delete a project
// @Tags         Projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.projects.Delete(id, currentUserID(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// @Summary      Add a team member
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                      true  "Project ID"
// @Param        request  body      models.AddMemberRequest  true  "Member"
// @Success      200      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Router       /projects/{id}/members [post]
func (h *ProjectHandler) AddMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req models.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.projects.AddMember(id, currentUserID(c), &req); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member added"})
}

// @Summary      List team members
// @Tags         Projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     int  true  "Project ID"
// @Success      200  {array}  models.ProjectMember
// @Router       /projects/{id}/members [get]
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	out, err := h.projects.ListMembers(id, currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary      Export a project summary PDF
// @Tags         Projects
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  int  true  "Project ID"
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /projects/{id}/export [get]
func (h *ProjectHandler) Export(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	userID := currentUserID(c)
	p, err := h.projects.Get(id, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	members, err := h.projects.ListMembers(id, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	path, err := h.reports.GenerateProjectSummary(p, members)
	if err != nil {
		log.Printf("[project][export] pdf failed: project_id=%d err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.FileAttachment(path, "project_summary.pdf")
}

func (h *ProjectHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, services.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "only the project owner may do this"})
	case errors.Is(err, services.ErrNotMember):
		c.JSON(http.StatusForbidden, gin.H{"error": "not a member of this project"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "project operation failed"})
	}
}
