package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-absensi-api/internal/dto"
	"github.com/noah-isme/sma-absensi-api/internal/menu"
	"github.com/noah-isme/sma-absensi-api/internal/models"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
	"github.com/noah-isme/sma-absensi-api/pkg/response"
)

type roleService interface {
	List(ctx context.Context) ([]models.Role, error)
	Get(ctx context.Context, id string) (*models.Role, error)
	Menu(ctx context.Context, id string) (*dto.MenuResponse, error)
	Create(ctx context.Context, req models.RoleRequest) (*models.Role, error)
	Update(ctx context.Context, id string, req models.RoleRequest) (*models.Role, error)
	TogglePermission(ctx context.Context, id string, req models.TogglePermissionRequest) (*dto.MenuResponse, error)
	Delete(ctx context.Context, id string) error
}

// RoleHandler exposes roles and their menu permissions.
type RoleHandler struct {
	roles roleService
}

// NewRoleHandler constructs a RoleHandler.
func NewRoleHandler(roles roleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// List godoc
// @Summary List roles
// @Tags Roles
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roles.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roles, nil)
}

// Get godoc
// @Summary Get role
// @Tags Roles
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} response.Envelope
// @Router /roles/{id} [get]
func (h *RoleHandler) Get(c *gin.Context) {
	role, err := h.roles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, role, nil)
}

// Menu godoc
// @Summary Menu tree
// @Description Full menu tree. With roleId each node carries its checked, indeterminate or unchecked state for that role.
// @Tags Roles
// @Produce json
// @Param roleId query string false "Role ID"
// @Success 200 {object} response.Envelope
// @Router /menu [get]
func (h *RoleHandler) Menu(c *gin.Context) {
	roleID := c.Query("roleId")
	if roleID == "" {
		roleID = c.Param("id")
	}
	if roleID == "" {
		response.JSON(c, http.StatusOK, dto.MenuResponse{Permissions: []string{}, Tree: menu.Annotate(nil)}, nil)
		return
	}
	view, err := h.roles.Menu(c.Request.Context(), roleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Create godoc
// @Summary Create role
// @Tags Roles
// @Accept json
// @Produce json
// @Param payload body models.RoleRequest true "Role payload"
// @Success 201 {object} response.Envelope
// @Router /roles [post]
func (h *RoleHandler) Create(c *gin.Context) {
	var req models.RoleRequest
	if !bindJSON(c, &req, "invalid role payload") {
		return
	}
	role, err := h.roles.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, role)
}

// Update godoc
// @Summary Update role
// @Tags Roles
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Param payload body models.RoleRequest true "Role payload"
// @Success 200 {object} response.Envelope
// @Router /roles/{id} [put]
func (h *RoleHandler) Update(c *gin.Context) {
	var req models.RoleRequest
	if !bindJSON(c, &req, "invalid role payload") {
		return
	}
	role, err := h.roles.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, role, nil)
}

// TogglePermission godoc
// @Summary Toggle a menu node for a role
// @Description Enabling or disabling a node cascades to all of its leaf paths.
// @Tags Roles
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Param payload body models.TogglePermissionRequest true "Toggle payload"
// @Success 200 {object} response.Envelope
// @Router /roles/{id}/permissions [patch]
func (h *RoleHandler) TogglePermission(c *gin.Context) {
	var req models.TogglePermissionRequest
	if !bindJSON(c, &req, "invalid toggle payload") {
		return
	}
	view, err := h.roles.TogglePermission(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Delete godoc
// @Summary Delete role
// @Tags Roles
// @Param id path string true "Role ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /roles/{id} [delete]
func (h *RoleHandler) Delete(c *gin.Context) {
	if c.Param("id") == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "role id required"))
		return
	}
	if err := h.roles.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
