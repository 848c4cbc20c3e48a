package app

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/garyellow/casmate/internal/catalog"
	"github.com/garyellow/casmate/internal/config"
	"github.com/garyellow/casmate/internal/ctxutil"
	"github.com/garyellow/casmate/internal/engine"
	domerrors "github.com/garyellow/casmate/internal/errors"
	"github.com/garyellow/casmate/internal/sentry"
)

// errorResponse is the body of every non-2xx API answer.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func abortWithError(c *gin.Context, status int, errType, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: errType, Message: message})
}

// fail maps a domain error onto an HTTP status and records it.
func (a *Application) fail(c *gin.Context, err error) {
	status, errType := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, domerrors.ErrCatalogNotReady):
		status, errType = http.StatusServiceUnavailable, "catalog_not_ready"
	case errors.Is(err, domerrors.ErrNotFound):
		status, errType = http.StatusNotFound, "not_found"
	case errors.Is(err, domerrors.ErrMissingParameter), errors.Is(err, domerrors.ErrInvalidInput), domerrors.IsValidation(err):
		status, errType = http.StatusBadRequest, "invalid_request"
	case errors.Is(err, context.DeadlineExceeded):
		status, errType = http.StatusGatewayTimeout, "timeout"
	}
	if a.metrics != nil {
		a.metrics.RecordHTTPError(errType)
	}
	if status >= 500 && status != http.StatusServiceUnavailable {
		sentry.CaptureException(c.Request.Context(), err)
	}
	_ = c.Error(err)

	msg := domerrors.GetUserMessage(err)
	if msg == "" {
		msg = err.Error()
	}
	abortWithError(c, status, errType, msg)
}

// engine returns the live engine or answers 503.
func (a *Application) engine(c *gin.Context) (*engine.Engine, bool) {
	e, err := a.engines.Current()
	if err != nil {
		a.fail(c, err)
		return nil, false
	}
	return e, true
}

// query returns the trimmed "q" parameter or answers 400.
func (a *Application) query(c *gin.Context) (string, bool) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		a.fail(c, domerrors.NewValidationError("q", "query parameter is required"))
		return "", false
	}
	return q, true
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

func (a *Application) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.fail(c, domerrors.At(domerrors.ModuleAPI, "chat").Wrap(
			errors.Join(domerrors.ErrInvalidInput, err), `body must be JSON with a non-empty "message"`))
		return
	}
	if _, ok := a.engine(c); !ok {
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	c.JSON(http.StatusOK, a.processor.ProcessMessage(c.Request.Context(), sessionID, req.Message))
}

func (a *Application) intent(c *gin.Context) {
	q, ok := a.query(c)
	if !ok {
		return
	}
	e, ok := a.engine(c)
	if !ok {
		return
	}
	intent, rule := e.Classifier.Explain(q)
	c.JSON(http.StatusOK, gin.H{"query": q, "intent": intent, "rule": rule})
}

func (a *Application) entities(c *gin.Context) {
	q, ok := a.query(c)
	if !ok {
		return
	}
	e, ok := a.engine(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "entities": e.Extractor.Extract(q)})
}

func (a *Application) resolveCourse(c *gin.Context) {
	q, ok := a.query(c)
	if !ok {
		return
	}
	e, ok := a.engine(c)
	if !ok {
		return
	}
	res := e.Resolver.ResolveCourse(q, e.Extractor.Extract(q))
	if a.metrics != nil {
		a.metrics.RecordResolution("course", res.Match.String())
	}
	c.JSON(http.StatusOK, res)
}

func (a *Application) resolveProgram(c *gin.Context) {
	q, ok := a.query(c)
	if !ok {
		return
	}
	e, ok := a.engine(c)
	if !ok {
		return
	}
	res := e.Resolver.ResolveProgram(q, e.Extractor.Extract(q))
	if a.metrics != nil {
		a.metrics.RecordResolution("program", string(res.Via))
	}
	c.JSON(http.StatusOK, res)
}

// courseParam finds the course named by :id, by ID or by code.
func (a *Application) courseParam(c *gin.Context, e *engine.Engine) (catalog.Course, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if course, ok := e.Catalog.Course(id); ok {
		return course, true
	}
	if course, ok := e.Catalog.CourseByCode(id); ok {
		return course, true
	}
	a.fail(c, domerrors.At(domerrors.ModuleAPI, "course").Wrapf(domerrors.ErrNotFound, "unknown course %q", id))
	return catalog.Course{}, false
}

func (a *Application) programParam(c *gin.Context, e *engine.Engine) (catalog.Program, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if p, ok := e.Catalog.Program(id); ok {
		return p, true
	}
	a.fail(c, domerrors.At(domerrors.ModuleAPI, "program").Wrapf(domerrors.ErrNotFound, "unknown program %q", id))
	return catalog.Program{}, false
}

func (a *Application) prerequisites(c *gin.Context) {
	e, ok := a.engine(c)
	if !ok {
		return
	}
	course, ok := a.courseParam(c, e)
	if !ok {
		return
	}
	list := e.Catalog.GetPrerequisites(course.ID)
	if c.Query("chain") == "true" {
		list = e.Catalog.PrerequisiteChain(course.ID)
	}
	if list == nil {
		list = []catalog.Course{}
	}
	c.JSON(http.StatusOK, gin.H{"course": course, "prerequisites": list})
}

// intParam parses an optional positive integer query parameter; absent is 0.
func intParam(c *gin.Context, name string, upper int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > upper {
		return 0, domerrors.NewValidationError(name, "must be an integer between 1 and "+strconv.Itoa(upper))
	}
	return n, nil
}

func (a *Application) programCourses(c *gin.Context) {
	e, ok := a.engine(c)
	if !ok {
		return
	}
	prog, ok := a.programParam(c, e)
	if !ok {
		return
	}
	year, err := intParam(c, "year", 10)
	if err != nil {
		a.fail(c, err)
		return
	}
	term, err := intParam(c, "term", 3)
	if err != nil {
		a.fail(c, err)
		return
	}
	if term > 0 && year == 0 {
		a.fail(c, domerrors.NewValidationError("year", "required when term is given"))
		return
	}

	years := []int{year}
	if year == 0 {
		years = e.Catalog.Years(prog.ID)
	}
	courses := []catalog.Course{}
	for _, y := range years {
		courses = append(courses, e.Catalog.CoursesFor(prog.ID, y, term)...)
	}
	c.JSON(http.StatusOK, gin.H{"program": prog, "year": year, "term": term, "courses": courses})
}

func (a *Application) programUnits(c *gin.Context) {
	e, ok := a.engine(c)
	if !ok {
		return
	}
	prog, ok := a.programParam(c, e)
	if !ok {
		return
	}
	year, err := intParam(c, "year", 10)
	if err != nil {
		a.fail(c, err)
		return
	}
	if year > 0 {
		c.JSON(http.StatusOK, e.Catalog.UnitsFor(prog.ID, year))
		return
	}

	byYear := make(map[int]catalog.UnitSummary)
	total := 0
	for _, y := range e.Catalog.Years(prog.ID) {
		sum := e.Catalog.UnitsFor(prog.ID, y)
		byYear[y] = sum
		total += sum.Total
	}
	c.JSON(http.StatusOK, gin.H{"program": prog, "total": total, "by_year": byYear})
}

func (a *Application) reload(c *gin.Context) {
	// the reload finishes even if the caller disconnects
	ctx, cancel := context.WithTimeout(ctxutil.PreserveTracing(c.Request.Context()), config.CatalogLoad)
	defer cancel()

	e, err := a.engines.Reload(ctx)
	if err != nil {
		sentry.CaptureCatalogError(ctx, a.cfg.Source().Name(), err)
		a.fail(c, domerrors.At(domerrors.ModuleAdmin, "reload").Wrap(err, "catalog reload failed: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "reloaded",
		"source":  e.Source,
		"catalog": e.Catalog.Stats(),
		"issues":  e.IssueCounts(),
	})
}
