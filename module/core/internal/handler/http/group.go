package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rfakeeh/sheap-app/module/core/domain"
	"github.com/rfakeeh/sheap-app/module/core/internal/repository/database"
	"github.com/rfakeeh/sheap-app/module/core/service"
)

type memberService interface {
	RegisterMember(ctx context.Context, m *domain.Member) error
	GetMember(ctx context.Context, phoneNumber string) (*domain.Member, error)
	CreateGroup(ctx context.Context, name, leaderID string, memberIDs []string) (*domain.Group, error)
	SetGeofence(ctx context.Context, groupID string, cfg *domain.GeofenceConfig) error
	GroupStatuses(ctx context.Context, groupID string) ([]domain.GeofenceStatus, error)
	GetStatus(ctx context.Context, groupID, memberID string) (*domain.GeofenceStatus, error)
}

type GroupHandler struct {
	memberSvc memberService
}

func NewGroupHandler(memberSvc memberService) *GroupHandler {
	return &GroupHandler{memberSvc: memberSvc}
}

func (h *GroupHandler) Register(r *gin.RouterGroup) {
	r.POST("/members", h.RegisterMember)
	r.GET("/members/:phone_number", h.GetMember)
	r.POST("/groups", h.CreateGroup)
	r.PUT("/groups/:group_id/geofence", h.SetGeofence)
	r.GET("/groups/:group_id/geofences", h.GroupStatuses)
	r.GET("/groups/:group_id/geofences/:member_id", h.GetStatus)
}

type memberRequest struct {
	PhoneNumber string `json:"phone_number"`
	FullName    string `json:"full_name"`
}

func (h *GroupHandler) RegisterMember(c *gin.Context) {
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.PhoneNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone_number is required"})
		return
	}

	m := &domain.Member{PhoneNumber: req.PhoneNumber, FullName: req.FullName}
	if err := h.memberSvc.RegisterMember(c.Request.Context(), m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register member"})
		return
	}

	c.JSON(http.StatusCreated, m)
}

func (h *GroupHandler) GetMember(c *gin.Context) {
	m, err := h.memberSvc.GetMember(c.Request.Context(), c.Param("phone_number"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch member"})
		return
	}
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}

	c.JSON(http.StatusOK, m)
}

type createGroupRequest struct {
	GroupName string   `json:"group_name"`
	LeaderID  string   `json:"leader_id"`
	MemberIDs []string `json:"member_ids"`
}

func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.GroupName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group_name is required"})
		return
	}
	if len(req.MemberIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "member_ids must not be empty"})
		return
	}

	g, err := h.memberSvc.CreateGroup(c.Request.Context(), req.GroupName, req.LeaderID, req.MemberIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create group"})
		return
	}

	c.JSON(http.StatusCreated, g)
}

type geofenceConfigRequest struct {
	Type            string   `json:"type"`
	RadiusMeters    *float64 `json:"radius_meters"`
	TargetMemberIDs []string `json:"target_member_ids"`
	StaticLat       *float64 `json:"static_latitude"`
	StaticLon       *float64 `json:"static_longitude"`
}

func (h *GroupHandler) SetGeofence(c *gin.Context) {
	var req geofenceConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cfg := &domain.GeofenceConfig{
		Type:            domain.GeofenceType(req.Type),
		RadiusMeters:    req.RadiusMeters,
		TargetMemberIDs: req.TargetMemberIDs,
		StaticLat:       req.StaticLat,
		StaticLon:       req.StaticLon,
	}

	err := h.memberSvc.SetGeofence(c.Request.Context(), c.Param("group_id"), cfg)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, cfg)
	case errors.Is(err, database.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
	case errors.Is(err, service.ErrInvalidGeofenceConfig):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update geofence"})
	}
}

func (h *GroupHandler) GroupStatuses(c *gin.Context) {
	statuses, err := h.memberSvc.GroupStatuses(c.Request.Context(), c.Param("group_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch geofence statuses"})
		return
	}
	if statuses == nil {
		statuses = []domain.GeofenceStatus{}
	}

	c.JSON(http.StatusOK, statuses)
}

func (h *GroupHandler) GetStatus(c *gin.Context) {
	st, err := h.memberSvc.GetStatus(c.Request.Context(), c.Param("group_id"), c.Param("member_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch geofence status"})
		return
	}
	if st == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "geofence status not found"})
		return
	}

	c.JSON(http.StatusOK, st)
}
