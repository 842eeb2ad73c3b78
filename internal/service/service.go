// Package service exposes the ledger over HTTP as JSON endpoints.
package service

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xpense/xpense/internal/ledger"
	"github.com/xpense/xpense/internal/storage"
)

// writeError maps a domain error to an HTTP status and writes the JSON
// body. Validation and policy failures never have side effects, so their
// message is safe to surface verbatim.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrNotAMember):
		status = http.StatusForbidden
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrSplitMismatch),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrDuplicateSplit),
		errors.Is(err, ledger.ErrZeroAmount),
		errors.Is(err, ledger.ErrInsufficientMemberBalance),
		errors.Is(err, ledger.ErrInsufficientPoolBalance),
		errors.Is(err, ledger.ErrOverpaymentNotAllowed):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// groupID parses the :group_id route parameter. On failure it writes the
// 400 response and reports false.
func groupID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("group_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return 0, false
	}
	return id, true
}
