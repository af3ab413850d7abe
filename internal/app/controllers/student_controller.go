package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unienroll/internal/app/models"
	"github.com/yigit/unienroll/internal/app/models/dto"
	"github.com/yigit/unienroll/internal/app/services"
	"github.com/yigit/unienroll/internal/middleware"
	"github.com/yigit/unienroll/internal/pkg/helpers"
)

// StudentController handles student and enrollment endpoints
type StudentController struct {
	backend services.Backend
}

// NewStudentController creates a new StudentController
func NewStudentController(backend services.Backend) *StudentController {
	return &StudentController{backend: backend}
}

// ListStudents lists students
// @Summary List students
// @Description Filters by name substring, sorts, then paginates
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Param skip query int false "Rows to skip" minimum(0)
// @Param limit query int false "Page size" minimum(1) maximum(100) default(10)
// @Param name query string false "Case-insensitive name filter"
// @Param order_by query string false "Sort field" Enums(name, age)
// @Success 200 {array} models.Student
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 401 {object} dto.ErrorResponse "Invalid API key"
// @Router /students/ [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
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

	students, err := c.backend.ListStudents(ctx.Request.Context(), models.StudentQuery{
		Skip:    skip,
		Limit:   limit,
		Name:    ctx.Query("name"),
		OrderBy: ctx.Query("order_by"),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, students)
}

// GetStudent returns one student
// @Summary Get student
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} models.Student
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, err := helpers.ParseID(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	st, err := c.backend.GetStudent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, st)
}

// CreateStudent creates a student
// @Summary Create student
// @Tags students
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.StudentCreate true "Student"
// @Success 201 {object} models.Student
// @Failure 400 {object} dto.ErrorResponse "Invalid student data"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /students/ [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var in models.StudentCreate
	if !middleware.BindJSON(ctx, &in) {
		return
	}
	st, err := c.backend.CreateStudent(ctx.Request.Context(), in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, st)
}

// DeleteStudent deletes a student; unknown ids succeed as well
// @Summary Delete student
// @Tags students
// @Security ApiKeyAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 204 "Deleted"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, err := helpers.ParseID(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if err := c.backend.DeleteStudent(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Enroll adds a student to a course
// @Summary Enroll student
// @Tags enrollments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Student ID"
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled (ENR_001) or course full (ENR_002)"
// @Router /students/{id}/enroll/{courseId} [post]
func (c *StudentController) Enroll(ctx *gin.Context) {
	c.changeEnrollment(ctx, c.backend.Enroll)
}

// Unenroll removes a student from a course
// @Summary Unenroll student
// @Tags enrollments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Student ID"
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Router /students/{id}/unenroll/{courseId} [post]
func (c *StudentController) Unenroll(ctx *gin.Context) {
	c.changeEnrollment(ctx, c.backend.Unenroll)
}

func (c *StudentController) changeEnrollment(ctx *gin.Context, op func(ctx context.Context, studentID, courseID int64) (string, error)) {
	studentID, err := helpers.ParseID(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	courseID, err := helpers.ParseID(ctx, "courseId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	msg, err := op(ctx.Request.Context(), studentID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: msg})
}
