package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lifeinfocus/focus/internal/models"
	"github.com/lifeinfocus/focus/store"
)

const (
	defaultLatestLimit = 20
	maxLimit           = 200
)

func (s *Server) createTask(c *gin.Context) {
	var req models.NewTask
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errInvalidJSON)
		return
	}

	sess := req.Session()
	sess.OwnerID = ownerID(c)

	saved, err := s.store.Create(c.Request.Context(), sess)
	if err != nil {
		s.fail(c, "creating task failed", err)
		return
	}

	c.JSON(http.StatusCreated, saved)
}

func (s *Server) latestSessions(c *gin.Context) {
	limit, apiErr := parseLimit(c.Query("limit"), defaultLatestLimit)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	s.list(c, store.Filter{Limit: limit})
}

func (s *Server) listTasks(c *gin.Context) {
	var f store.Filter

	limit, apiErr := parseLimit(c.Query("limit"), maxLimit)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	f.Limit = limit

	for param, dst := range map[string]*time.Time{
		"since": &f.Since,
		"until": &f.Until,
	} {
		v := c.Query(param)
		if v == "" {
			continue
		}

		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			writeError(c, badRequest(
				"invalid_"+param,
				param+" must be an RFC 3339 timestamp",
			))

			return
		}

		*dst = t
	}

	if !f.Since.IsZero() && !f.Until.IsZero() && f.Until.Before(f.Since) {
		writeError(c, badRequest("invalid_range", "until is before since"))
		return
	}

	s.list(c, f)
}

func (s *Server) list(c *gin.Context, f store.Filter) {
	f.OwnerID = ownerID(c)

	sessions, err := s.store.List(c.Request.Context(), f)
	if err != nil {
		s.fail(c, "listing tasks failed", err)
		return
	}

	if sessions == nil {
		sessions = []models.CompletedSession{}
	}

	c.JSON(http.StatusOK, sessions)
}

func (s *Server) getTask(c *gin.Context) {
	sess, ok := s.ownedTask(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, sess)
}

func (s *Server) updateTask(c *gin.Context) {
	var upd models.SessionUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		writeError(c, errInvalidJSON)
		return
	}

	if _, ok := s.ownedTask(c); !ok {
		return
	}

	sess, err := s.store.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		s.fail(c, "updating task failed", err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

func (s *Server) deleteTask(c *gin.Context) {
	if _, ok := s.ownedTask(c); !ok {
		return
	}

	if err := s.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, "deleting task failed", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ownedTask loads the task named in the path. Tasks of other owners are
// reported as missing.
func (s *Server) ownedTask(c *gin.Context) (models.CompletedSession, bool) {
	sess, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, "loading task failed", err)
		return sess, false
	}

	if owner := ownerID(c); owner != "" && sess.OwnerID != owner {
		writeError(c, errTaskNotFound)
		return sess, false
	}

	return sess, true
}

func (s *Server) fail(c *gin.Context, msg string, err error) {
	apiErr := storeError(err)

	if apiErr == errInternal {
		s.logger.ErrorContext(c.Request.Context(), msg, "error", err)
	}

	writeError(c, apiErr)
}

func parseLimit(v string, def int) (int, *apiError) {
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, badRequest("invalid_limit", "limit must be a positive integer")
	}

	return min(n, maxLimit), nil
}
