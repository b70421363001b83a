package http

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quizbank/internal/domain"
	"quizbank/internal/storage"
)

// maxProfilePictureSize caps profile picture uploads at 5 MiB.
const maxProfilePictureSize = 5 << 20

// profilePictureURLTTL is how long presigned picture URLs stay valid.
const profilePictureURLTTL = time.Hour

var imageContentTypes = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
	CreatedAt      string `json:"created_at"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.users.Register(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		h.respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) getProfile(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid token"})
		return
	}

	user, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, h.userToResponse(c, user))
}

func (h *Handler) updateProfilePicture(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid token"})
		return
	}

	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage service not configured"})
		return
	}

	fileHeader, err := c.FormFile("profilePicture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded"})
		return
	}
	if fileHeader.Size > maxProfilePictureSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image exceeds the 5MB size limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	contentType, ok := imageContentTypes[ext]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file format. Only JPEG, PNG, JPG and GIF are allowed."})
		return
	}

	// snapshot the previous picture so the replaced object can be removed
	current, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "User not found")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, err, "User not found")
		return
	}
	defer file.Close()

	key := path.Join(h.keyPrefix, "profile-images", userID, uuid.NewString()+ext)
	location, err := h.storage.UploadObject(c.Request.Context(), file, storage.UploadOptions{
		Bucket:      h.bucket,
		Key:         key,
		ContentType: contentType,
	})
	if err != nil {
		h.respondError(c, err, "User not found")
		return
	}

	user, err := h.users.UpdateProfilePicture(c.Request.Context(), userID, location)
	if err != nil {
		h.respondError(c, err, "User not found")
		return
	}

	if current.ProfilePicture != "" && current.ProfilePicture != location {
		if err := h.storage.DeleteObject(c.Request.Context(), current.ProfilePicture); err != nil {
			h.logger.WithError(err).Warnf("delete previous profile picture for user %s", userID)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    h.userToResponse(c, user),
		"message": "Image uploaded successfully",
	})
}

// userToResponse maps a sanitized user to the wire shape, presigning the
// stored picture location into a fetchable URL.
func (h *Handler) userToResponse(c *gin.Context, user *domain.User) profileResponse {
	resp := profileResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
	if user.ProfilePicture != "" && h.storage != nil {
		url, err := h.storage.ObjectURL(c.Request.Context(), user.ProfilePicture, profilePictureURLTTL)
		if err != nil {
			h.logger.WithError(err).Warnf("presign profile picture for user %s", user.ID)
		} else {
			resp.ProfilePicture = url
		}
	}
	return resp
}
