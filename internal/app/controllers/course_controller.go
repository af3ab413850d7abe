package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unienroll/internal/app/models"
	"github.com/yigit/unienroll/internal/app/services"
	"github.com/yigit/unienroll/internal/middleware"
	"github.com/yigit/unienroll/internal/pkg/helpers"
)

// CourseController handles course endpoints
type CourseController struct {
	backend services.Backend
}

// NewCourseController creates a new CourseController
func NewCourseController(backend services.Backend) *CourseController {
	return &CourseController{backend: backend}
}

// ListCourses lists courses
// @Summary List courses
// @Description Filters by title substring; without limit every matching course is returned
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param skip query int false "Rows to skip" minimum(0)
// @Param limit query int false "Page size, 0 for all" minimum(0) maximum(100)
// @Param title query string false "Case-insensitive title filter"
// @Param order_by query string false "Sort field" Enums(title)
// @Success 200 {array} models.Course
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Router /courses/ [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	skip, err := helpers.QueryInt(ctx, "skip")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	limit, err := helpers.QueryInt(ctx, "limit")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	courses, err := c.backend.ListCourses(ctx.Request.Context(), models.CourseQuery{
		Skip:    skip,
		Limit:   limit,
		Title:   ctx.Query("title"),
		OrderBy: ctx.Query("order_by"),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, courses)
}

// GetCourse returns one course
// @Summary Get course
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} models.Course
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, err := helpers.ParseID(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	course, err := c.backend.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, course)
}

// CreateCourse creates a course with enrolled_count 0
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CourseCreate true "Course"
// @Success 201 {object} models.Course
// @Failure 400 {object} dto.ErrorResponse "Invalid course data"
// @Router /courses/ [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var in models.CourseCreate
	if !middleware.BindJSON(ctx, &in) {
		return
	}
	course, err := c.backend.CreateCourse(ctx.Request.Context(), in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, course)
}

// DeleteCourse deletes a course and every enrollment in it
// @Summary Delete course
// @Tags courses
// @Security ApiKeyAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 204 "Deleted"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, err := helpers.ParseID(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if err := c.backend.DeleteCourse(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
