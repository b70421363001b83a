package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"quizbank/internal/auth"
	"quizbank/internal/service"
	"quizbank/internal/storage"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users      service.UserService
	categories service.CategoryService
	questions  service.QuestionService
	tokens     *auth.TokenService
	storage    storage.Service
	bucket     string
	keyPrefix  string
	logger     logrus.FieldLogger
}

func NewHandler(
	users service.UserService,
	categories service.CategoryService,
	questions service.QuestionService,
	tokens *auth.TokenService,
	store storage.Service,
	bucket, keyPrefix string,
	logger logrus.FieldLogger,
) *Handler {
	return &Handler{
		users:      users,
		categories: categories,
		questions:  questions,
		tokens:     tokens,
		storage:    store,
		bucket:     bucket,
		keyPrefix:  keyPrefix,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		protected := api.Group("", authMiddleware(h.tokens))
		{
			protected.GET("/users/profile", h.getProfile)
			protected.PUT("/users/profile", h.updateProfilePicture)

			protected.POST("/categories", h.createCategory)
			protected.GET("/categories", h.listCategories)
			protected.GET("/categories/:id", h.getCategory)
			protected.PUT("/categories/:id", h.updateCategory)
			protected.DELETE("/categories/:id", h.deleteCategory)

			protected.POST("/questions", h.createQuestion)
			protected.GET("/questions", h.listQuestions)
			protected.POST("/questions/bulk-upload", h.bulkUploadQuestions)
			protected.GET("/questions/:id", h.getQuestion)
			protected.PUT("/questions/:id", h.updateQuestion)
			protected.DELETE("/questions/:id", h.deleteQuestion)
			protected.GET("/questions/category/:categoryId", h.listQuestionsByCategory)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// respondError translates service errors into the response taxonomy. Errors
// outside the taxonomy are logged server side and answered with a generic
// 500 body; notFound is the body used for service.ErrNotFound.
func (h *Handler) respondError(c *gin.Context, err error, notFound string) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message})
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrUnknownCategories):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Some category IDs do not exist"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	default:
		h.logger.WithError(err).Errorf("%s %s failed", c.Request.Method, c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}
