package filtering

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reportfilter/internal/logger"
	"reportfilter/pkg/errors"
	"reportfilter/pkg/logging"
)

type Handler struct {
	Service Service
	Logger  logger.Logger
}

func NewHandler(service Service, log logger.Logger) *Handler {
	return &Handler{
		Service: service,
		Logger:  log,
	}
}

func (h *Handler) HandleError(c *gin.Context, err error) {
	status := errors.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.Logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)
	} else {
		h.Logger.DebugwCtx(c.Request.Context(), "Request rejected", "error", err, "path", c.Request.URL.Path)
	}

	c.JSON(status, errors.ToErrorResponse(err))
}

func (h *Handler) bindError(c *gin.Context, err error) {
	h.HandleError(c, errors.ErrValidation.WithMessage("invalid request body").WithCause(err))
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	v1 := router.Group("/api/v1")
	{
		reports := v1.Group("/reports")
		{
			reports.GET("", h.ListReports)
			reports.GET("/:report/filters", h.GetFilterSet)
			reports.POST("/:report/filters/:filter/restriction", h.ComputeRestriction)
			reports.POST("/:report/filters/:filter/options", h.GetOptions)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", h.OpenSession)
			sessions.GET("/:id", h.GetSession)
			sessions.PUT("/:id/values/:filter", h.SetValue)
			sessions.GET("/:id/filters/:filter/options", h.GetSessionOptions)
			sessions.DELETE("/:id", h.CloseSession)
		}
	}
}

// ListReports godoc
// @Summary      List reports
// @Description  Names of every report with registered filters
// @Tags         reports
// @Produce      json
// @Success      200  {array}   ReportSummary
// @Router       /reports [get]
func (h *Handler) ListReports(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Reports(c.Request.Context()))
}

// GetFilterSet godoc
// @Summary      Get a report's filters
// @Description  Filter definitions in display order
// @Tags         reports
// @Produce      json
// @Param        report  path      string  true  "Report name"
// @Success      200     {object}  FilterSetResponse
// @Failure      404     {object}  errors.ErrorResponse
// @Router       /reports/{report}/filters [get]
func (h *Handler) GetFilterSet(c *gin.Context) {
	set, err := h.Service.FilterSet(c.Request.Context(), c.Param("report"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, FilterSetResponse{Report: set.Report, Filters: set.Filters})
}

// ComputeRestriction godoc
// @Summary      Compute a dependent filter's restriction
// @Description  Returns a null restriction while any dependency is empty
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        report   path      string              true  "Report name"
// @Param        filter   path      string              true  "Filter name"
// @Param        request  body      RestrictionRequest  true  "Current filter values"
// @Success      200      {object}  RestrictionResponse
// @Failure      400      {object}  errors.ErrorResponse
// @Failure      404      {object}  errors.ErrorResponse
// @Router       /reports/{report}/filters/{filter}/restriction [post]
func (h *Handler) ComputeRestriction(c *gin.Context) {
	var req RestrictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	reportName := c.Param("report")
	ctx := logging.WithReport(c.Request.Context(), reportName)

	r, err := h.Service.ComputeRestriction(ctx, reportName, c.Param("filter"), req.Values)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, RestrictionResponse{Restriction: r, Filters: r.Filters()})
}

// GetOptions godoc
// @Summary      List a link filter's options
// @Description  Candidates for the filter, narrowed by the values of its dependencies
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        report   path      string          true  "Report name"
// @Param        filter   path      string          true  "Filter name"
// @Param        request  body      OptionsRequest  true  "Current filter values, search and limit"
// @Success      200      {object}  OptionsResult
// @Failure      400      {object}  errors.ErrorResponse
// @Failure      404      {object}  errors.ErrorResponse
// @Failure      503      {object}  errors.ErrorResponse
// @Router       /reports/{report}/filters/{filter}/options [post]
func (h *Handler) GetOptions(c *gin.Context) {
	var req OptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	reportName := c.Param("report")
	ctx := logging.WithReport(c.Request.Context(), reportName)

	result, err := h.Service.Options(ctx, reportName, c.Param("filter"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// OpenSession godoc
// @Summary      Open a filter session
// @Description  Creates an empty set of filter values for a report
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        request  body      OpenSessionRequest  true  "Report to open"
// @Success      201      {object}  session.Session
// @Failure      400      {object}  errors.ErrorResponse
// @Failure      404      {object}  errors.ErrorResponse
// @Router       /sessions [post]
func (h *Handler) OpenSession(c *gin.Context) {
	var req OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	sess, err := h.Service.OpenSession(c.Request.Context(), req.Report)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sess)
}

// GetSession godoc
// @Summary      Get a filter session
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  session.Session
// @Failure      404  {object}  errors.ErrorResponse
// @Router       /sessions/{id} [get]
func (h *Handler) GetSession(c *gin.Context) {
	sess, err := h.Service.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// SetValue godoc
// @Summary      Set a filter value
// @Description  An empty value clears the filter. Dependents keep their values and are listed as stale.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id       path      string           true  "Session ID"
// @Param        filter   path      string           true  "Filter name"
// @Param        request  body      SetValueRequest  true  "New value"
// @Success      200      {object}  SessionUpdate
// @Failure      400      {object}  errors.ErrorResponse
// @Failure      404      {object}  errors.ErrorResponse
// @Router       /sessions/{id}/values/{filter} [put]
func (h *Handler) SetValue(c *gin.Context) {
	var req SetValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	id := c.Param("id")
	ctx := logging.WithSessionID(c.Request.Context(), id)

	update, err := h.Service.SetSessionValue(ctx, id, c.Param("filter"), req.Value)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, update)
}

// GetSessionOptions godoc
// @Summary      List options from a session's values
// @Tags         sessions
// @Produce      json
// @Param        id      path      string  true   "Session ID"
// @Param        filter  path      string  true   "Filter name"
// @Param        search  query     string  false  "Substring of the id or label"
// @Param        limit   query     int     false  "Maximum options returned"
// @Success      200     {object}  OptionsResult
// @Failure      400     {object}  errors.ErrorResponse
// @Failure      404     {object}  errors.ErrorResponse
// @Failure      503     {object}  errors.ErrorResponse
// @Router       /sessions/{id}/filters/{filter}/options [get]
func (h *Handler) GetSessionOptions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.HandleError(c, errors.ErrValidation.WithMessage("limit must be an integer"))
			return
		}
		limit = n
	}

	id := c.Param("id")
	ctx := logging.WithSessionID(c.Request.Context(), id)

	result, err := h.Service.SessionOptions(ctx, id, c.Param("filter"), c.Query("search"), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CloseSession godoc
// @Summary      Close a filter session
// @Tags         sessions
// @Param        id   path  string  true  "Session ID"
// @Success      204
// @Failure      404  {object}  errors.ErrorResponse
// @Router       /sessions/{id} [delete]
func (h *Handler) CloseSession(c *gin.Context) {
	if err := h.Service.CloseSession(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
