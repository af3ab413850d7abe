package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unienroll/internal/app/controllers"
	"github.com/yigit/unienroll/internal/app/models/dto"
	"github.com/yigit/unienroll/internal/middleware"
)

// SetupRouter configures all application routes. Every route except
// /health sits behind the API key check.
func SetupRouter(
	router *gin.Engine,
	studentController *controllers.StudentController,
	courseController *controllers.CourseController,
	apiKey *middleware.APIKeyAuth,
	storeDriver string,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Store: storeDriver})
	})

	api := router.Group("")
	api.Use(apiKey.Require())

	students := api.Group("/students")
	{
		students.GET("/", studentController.ListStudents)
		students.POST("/", studentController.CreateStudent)
		students.GET("/:id", studentController.GetStudent)
		students.DELETE("/:id", studentController.DeleteStudent)
		students.POST("/:id/enroll/:courseId", studentController.Enroll)
		students.POST("/:id/unenroll/:courseId", studentController.Unenroll)
	}

	courses := api.Group("/courses")
	{
		courses.GET("/", courseController.ListCourses)
		courses.POST("/", courseController.CreateCourse)
		courses.GET("/:id", courseController.GetCourse)
		courses.DELETE("/:id", courseController.DeleteCourse)
	}
}
