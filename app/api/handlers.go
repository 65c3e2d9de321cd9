package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/draftnag/draft-nag/app/database"
	"github.com/draftnag/draft-nag/app/reminder"
)

func NewHandler(runner RunnerInterface, planner PlannerInterface, store *reminder.Store,
	jobs reminder.JobScheduler, userRepo database.UserRepository,
	postRepo database.PostRepository, siteName, version string) *Handler {
	return &Handler{
		runner:   runner,
		planner:  planner,
		store:    store,
		jobs:     jobs,
		userRepo: userRepo,
		postRepo: postRepo,
		siteName: siteName,
		version:  version,
	}
}

func (h *Handler) GetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     "Draft Nag",
		"site":        h.siteName,
		"version":     h.version,
		"description": "Emails authors a periodic summary of their stale drafts",
		"endpoints": map[string]string{
			"health":   "/health",
			"preview":  "/preview",
			"last_run": "/last-run",
			"settings": "/api/settings (requires X-API-Key header)",
			"run":      "/api/run (POST, requires X-API-Key header)",
		},
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if userCount, err := h.userRepo.GetUserCount(); err == nil {
		health["users"] = userCount
	}
	if postCount, err := h.postRepo.GetPostCount(); err == nil {
		health["posts"] = postCount
	}

	c.JSON(http.StatusOK, health)
}

// GetPreview renders the reminder for the first user with outstanding
// drafts. Nothing is sent and no run report is recorded.
func (h *Handler) GetPreview(c *gin.Context) {
	display, err := h.runner.Run(time.Now(), true)
	if err != nil {
		slog.Error("Preview failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Preview failed"})
		return
	}

	if display == "" {
		display = "<p>No outstanding drafts found.</p>"
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, display)
}

func (h *Handler) GetLastRun(c *gin.Context) {
	report, err := h.store.LoadRunReport()
	if err != nil {
		slog.Error("Database error", "operation", "load_run_report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, reminder.FormatLastRun(report))
}

type settingsResponse struct {
	AgeDays     int    `json:"age_days"`
	AgeBasis    string `json:"age_basis"`
	Types       string `json:"content_types"`
	TriggerDay  string `json:"trigger_day"`
	TriggerTime string `json:"trigger_time"`
}

func (h *Handler) APIGetSettings(c *gin.Context) {
	now := time.Now()

	// Reading the settings page is the reconciliation point: any pending
	// trigger-time change takes effect here.
	if err := h.planner.EnsureScheduled(now); err != nil {
		slog.Warn("Failed to reconcile reminder schedule", "error", err)
	}

	settings, err := h.store.Load()
	if err != nil {
		slog.Error("Database error", "operation", "load_settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	report, err := h.store.LoadRunReport()
	if err != nil {
		slog.Error("Database error", "operation", "load_run_report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	nextFire, scheduled := h.jobs.NextFire(reminder.JobName)

	c.JSON(http.StatusOK, gin.H{
		"settings": settingsResponse{
			AgeDays:     settings.AgeDays,
			AgeBasis:    settings.AgeBasis,
			Types:       settings.Types,
			TriggerDay:  settings.TriggerDay,
			TriggerTime: settings.TriggerTime,
		},
		"status": reminder.FormatStatus(report, nextFire, scheduled),
	})
}

type updateSettingsRequest struct {
	AgeDays     *int    `json:"age_days"`
	AgeBasis    *string `json:"age_basis"`
	Types       *string `json:"content_types"`
	TriggerDay  *string `json:"trigger_day"`
	TriggerTime *string `json:"trigger_time"`
}

// APIUpdateSettings overlays the provided fields on top of the current
// settings. Omitted fields keep their stored values.
func (h *Handler) APIUpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	settings, err := h.store.Load()
	if err != nil {
		slog.Error("Database error", "operation", "load_settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if req.AgeDays != nil {
		settings.AgeDays = *req.AgeDays
	}
	if req.AgeBasis != nil {
		settings.AgeBasis = *req.AgeBasis
	}
	if req.Types != nil {
		settings.Types = *req.Types
	}
	if req.TriggerDay != nil {
		settings.TriggerDay = *req.TriggerDay
	}
	if req.TriggerTime != nil {
		settings.TriggerTime = *req.TriggerTime
	}

	if err := h.store.Save(settings); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := h.planner.EnsureScheduled(time.Now()); err != nil {
		slog.Warn("Failed to reconcile reminder schedule", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": settingsResponse{
			AgeDays:     settings.AgeDays,
			AgeBasis:    settings.AgeBasis,
			Types:       settings.Types,
			TriggerDay:  settings.TriggerDay,
			TriggerTime: settings.TriggerTime,
		},
	})
}

// APIDeleteSettings resets every stored setting to defaults and unschedules
// the recurring job.
func (h *Handler) APIDeleteSettings(c *gin.Context) {
	if err := h.store.ClearAll(); err != nil {
		slog.Error("Database error", "operation", "clear_settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.jobs.Clear(reminder.JobName)

	slog.Info("Reminder settings cleared")

	c.JSON(http.StatusOK, gin.H{"message": "Settings cleared"})
}

// APIRun triggers a dispatch pass immediately. With ?force=true the
// day-of-week gate is bypassed.
func (h *Handler) APIRun(c *gin.Context) {
	now := time.Now()
	force := c.Query("force") == "true"

	var err error
	if force {
		_, err = h.runner.ForceRun(now)
	} else {
		_, err = h.runner.Run(now, false)
	}
	if err != nil {
		slog.Error("Dispatch pass failed", "forced", force, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Dispatch pass failed"})
		return
	}

	report, err := h.store.LoadRunReport()
	if err != nil {
		slog.Error("Database error", "operation", "load_run_report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	response := gin.H{"triggered": true, "forced": force}
	if report != nil {
		response["report"] = report
	}

	c.JSON(http.StatusOK, response)
}

type createUserRequest struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name"`
}

func (h *Handler) APICreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	id, err := h.userRepo.CreateUser(req.Email, req.Name)
	if err != nil {
		slog.Error("Database error", "operation", "create_user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type createPostRequest struct {
	AuthorID  string `json:"author_id" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (h *Handler) APICreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	post := database.Post{
		AuthorID: req.AuthorID,
		Title:    req.Title,
		Content:  req.Content,
		Type:     req.Type,
		Status:   req.Status,
	}

	// Timestamps are settable so drafts can be backdated for testing age
	// thresholds.
	if req.CreatedAt != "" {
		createdAt, err := time.Parse(time.RFC3339, req.CreatedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid created_at, expected RFC3339"})
			return
		}
		post.CreatedAt = createdAt
	}
	if req.UpdatedAt != "" {
		updatedAt, err := time.Parse(time.RFC3339, req.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid updated_at, expected RFC3339"})
			return
		}
		post.UpdatedAt = updatedAt
	}

	id, err := h.postRepo.CreatePost(post)
	if err != nil {
		slog.Error("Database error", "operation", "create_post", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}
