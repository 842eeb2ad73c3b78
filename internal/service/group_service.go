package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xpense/xpense/internal/ledger"
	"github.com/xpense/xpense/internal/middleware"
	"github.com/xpense/xpense/internal/models"
	"github.com/xpense/xpense/internal/storage"
)

// GroupService handles group and membership endpoints.
type GroupService struct {
	store  storage.Store
	ledger *ledger.Ledger
}

// NewGroupService creates a new GroupService.
func NewGroupService(store storage.Store, l *ledger.Ledger) *GroupService {
	return &GroupService{store: store, ledger: l}
}

type createGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Currency    string `json:"currency"`
}

// Create creates a new group; the caller becomes its owner.
func (s *GroupService) Create(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := middleware.Username(c)
	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		Currency:    req.Currency,
	}

	if err := s.store.CreateGroup(c.Request.Context(), group, caller); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		writeError(c, err)
		return
	}

	slog.Info("Group created", "group_id", group.ID, "owner", caller)
	c.JSON(http.StatusCreated, group)
}

// List returns all groups the caller is a member of.
func (s *GroupService) List(c *gin.Context) {
	caller := middleware.Username(c)

	groups, err := s.store.ListGroupsForUser(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// Get returns one group; the caller must be a member.
func (s *GroupService) Get(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}
	caller := middleware.Username(c)

	if err := s.requireMember(c, id, caller); err != nil {
		return
	}

	group, err := s.store.GetGroup(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

type addMemberRequest struct {
	Username string `json:"username" binding:"required"`
	IsOwner  bool   `json:"is_owner"`
}

// AddMember adds a user to the group; the caller must be an owner.
func (s *GroupService) AddMember(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}
	caller := middleware.Username(c)

	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.requireOwner(c, id, caller); err != nil {
		return
	}

	// The new member must be a registered user.
	if _, err := s.store.GetUser(c.Request.Context(), req.Username); err != nil {
		writeError(c, err)
		return
	}

	member := &models.GroupMember{
		GroupID:  id,
		Username: req.Username,
		IsOwner:  req.IsOwner,
	}
	if err := s.store.AddMember(c.Request.Context(), member); err != nil {
		slog.Error("AddMember failed", "group_id", id, "username", req.Username, "error", err)
		writeError(c, err)
		return
	}

	slog.Info("Member added", "group_id", id, "username", req.Username, "is_owner", req.IsOwner)
	s.listMembers(c, id)
}

// RemoveMember removes a user from the group; the caller must be an owner.
func (s *GroupService) RemoveMember(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}
	caller := middleware.Username(c)
	username := c.Param("username")

	if err := s.requireOwner(c, id, caller); err != nil {
		return
	}

	if err := s.store.RemoveMember(c.Request.Context(), id, username); err != nil {
		writeError(c, err)
		return
	}

	slog.Info("Member removed", "group_id", id, "username", username)
	s.listMembers(c, id)
}

// Members returns the group's membership with each member's current
// balance derived from the ledger.
func (s *GroupService) Members(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}
	caller := middleware.Username(c)

	entries, err := s.ledger.GroupBalances(c.Request.Context(), id, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// PoolBalance returns the net money held in the group's settlement pool.
func (s *GroupService) PoolBalance(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}
	caller := middleware.Username(c)

	balance, err := s.ledger.GroupPoolBalance(c.Request.Context(), id, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group_id": id, "balance_amount_cents": balance})
}

// Balances returns every member's balance from one history snapshot.
func (s *GroupService) Balances(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}
	caller := middleware.Username(c)

	entries, err := s.ledger.GroupBalances(c.Request.Context(), id, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// MemberBalance returns a single member's balance.
func (s *GroupService) MemberBalance(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}
	caller := middleware.Username(c)
	username := c.Param("username")

	balance, err := s.ledger.MemberBalance(c.Request.Context(), id, caller, username)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group_id": id, "username": username, "balance_amount_cents": balance})
}

func (s *GroupService) listMembers(c *gin.Context, groupID int64) {
	members, err := s.store.ListMembers(c.Request.Context(), groupID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (s *GroupService) requireMember(c *gin.Context, groupID int64, username string) error {
	ok, err := s.store.IsMember(c.Request.Context(), groupID, username)
	if err != nil {
		writeError(c, err)
		return err
	}
	if !ok {
		err := errors.New("you are not a member of this group")
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return err
	}
	return nil
}

func (s *GroupService) requireOwner(c *gin.Context, groupID int64, username string) error {
	ok, err := s.store.IsOwner(c.Request.Context(), groupID, username)
	if err != nil {
		writeError(c, err)
		return err
	}
	if !ok {
		err := errors.New("you are not the owner of this group")
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return err
	}
	return nil
}
