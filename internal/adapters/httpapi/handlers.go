package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/streak/internal/core/streak"
	"github.com/example/streak/internal/ports/primary"
)

const defaultEpitaphLimit = 20

type handlers struct {
	svcs Services
}

type checkInBody struct {
	Relapse   bool   `json:"relapse"`
	Emotion   string `json:"emotion"`
	Context   string `json:"context"`
	Intensity int    `json:"intensity"`
}

type recoveryBody struct {
	Success *bool `json:"success"`
}

type missionsBody struct {
	MissionIDs []string `json:"mission_ids"`
	Date       string   `json:"date"`
}

type triggerBody struct {
	Emotion   string `json:"emotion"`
	Context   string `json:"context"`
	Intensity int    `json:"intensity"`
	Kind      string `json:"kind"`
}

type epitaphBody struct {
	Content string `json:"content"`
}

// bind decodes an optional JSON body. An empty body leaves dst untouched.
func bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, CodeInvalidInput, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (h *handlers) startSession(c *gin.Context) {
	resp, err := h.svcs.Streak.StartSession(c.Request.Context(), c.Param("user"))
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, resp)
}

func (h *handlers) status(c *gin.Context) {
	resp, err := h.svcs.Streak.Status(c.Request.Context(), c.Param("user"))
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, resp)
}

func (h *handlers) checkIn(c *gin.Context) {
	var body checkInBody
	if !bind(c, &body) {
		return
	}
	ctx := c.Request.Context()
	user := c.Param("user")

	resp, err := h.svcs.Streak.CheckIn(ctx, primary.CheckInRequest{
		UserID:    user,
		Relapse:   body.Relapse,
		Emotion:   body.Emotion,
		Context:   body.Context,
		Intensity: body.Intensity,
	})
	if errors.Is(err, streak.ErrAlreadyCheckedIn) {
		status, serr := h.svcs.Streak.Status(ctx, user)
		if serr != nil {
			failWith(c, serr)
			return
		}
		success(c, gin.H{"already_checked_in": true, "status": status})
		return
	}
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, resp)
}

func (h *handlers) recoverStreak(c *gin.Context) {
	var body recoveryBody
	if !bind(c, &body) {
		return
	}
	if body.Success == nil {
		fail(c, http.StatusBadRequest, CodeInvalidInput, "success is required")
		return
	}

	resp, err := h.svcs.Streak.Recover(c.Request.Context(), primary.RecoverRequest{
		UserID:  c.Param("user"),
		Success: *body.Success,
	})
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, resp)
}

func (h *handlers) today(c *gin.Context) {
	resp, err := h.svcs.Daily.Today(c.Request.Context(), c.Param("user"))
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, resp)
}

func (h *handlers) selectMissions(c *gin.Context) {
	var body missionsBody
	if !bind(c, &body) {
		return
	}
	resp, err := h.svcs.Daily.SelectMissions(c.Request.Context(), primary.SelectMissionsRequest{
		UserID:     c.Param("user"),
		MissionIDs: body.MissionIDs,
		Date:       body.Date,
	})
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, resp)
}

func (h *handlers) completeHabit(c *gin.Context) {
	resp, err := h.svcs.Daily.CompleteHabit(c.Request.Context(), primary.CompleteHabitRequest{
		UserID:  c.Param("user"),
		HabitID: c.Param("habit"),
		Date:    c.Query("date"),
	})
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, resp)
}

func (h *handlers) logTrigger(c *gin.Context) {
	var body triggerBody
	if !bind(c, &body) {
		return
	}
	resp, err := h.svcs.Trigger.LogTrigger(c.Request.Context(), primary.LogTriggerRequest{
		UserID:    c.Param("user"),
		Emotion:   body.Emotion,
		Context:   body.Context,
		Intensity: body.Intensity,
		Kind:      body.Kind,
	})
	if err != nil {
		failWith(c, err)
		return
	}
	respond(c, http.StatusCreated, CodeOK, "success", resp)
}

func (h *handlers) epitaph(c *gin.Context) {
	limit := defaultEpitaphLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fail(c, http.StatusBadRequest, CodeInvalidInput, "limit must be a number")
			return
		}
		limit = n
	}
	ctx := c.Request.Context()
	user := c.Param("user")

	eligibility, err := h.svcs.Epitaph.Eligibility(ctx, user)
	if err != nil {
		failWith(c, err)
		return
	}
	entries, err := h.svcs.Epitaph.List(ctx, user, limit)
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, gin.H{"eligibility": eligibility, "entries": entries})
}

func (h *handlers) writeEpitaph(c *gin.Context) {
	var body epitaphBody
	if !bind(c, &body) {
		return
	}
	resp, err := h.svcs.Epitaph.Write(c.Request.Context(), primary.WriteEpitaphRequest{
		UserID:  c.Param("user"),
		Content: body.Content,
	})
	if err != nil {
		failWith(c, err)
		return
	}
	respond(c, http.StatusCreated, CodeOK, "success", resp)
}

func (h *handlers) analytics(c *gin.Context) {
	rangeDays, err := strconv.Atoi(c.DefaultQuery("range", "7"))
	if err != nil {
		fail(c, http.StatusBadRequest, CodeInvalidInput, "range must be a number of days")
		return
	}
	resp, err := h.svcs.Analytics.ComputeWindow(c.Request.Context(), c.Param("user"), rangeDays)
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, resp)
}

func (h *handlers) history(c *gin.Context) {
	limit := defaultEpitaphLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fail(c, http.StatusBadRequest, CodeInvalidInput, "limit must be a number")
			return
		}
		limit = n
	}

	entries, err := h.svcs.Activity.List(c.Request.Context(), primary.ActivityFilters{
		UserID: c.Param("user"),
		Action: c.Query("action"),
		Limit:  limit,
	})
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, gin.H{"entries": entries})
}
