package web

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoding for upload validation
	_ "image/jpeg" // register JPEG decoding for upload validation
	_ "image/png"  // register PNG decoding for upload validation
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/zoonet/zoonet/internal/database"
)

const maxImageSize = 5 * 1024 * 1024 // 5 MB upload limit

// PostForm carries the post submission fields and their validation state
type PostForm struct {
	Text    string `form:"text" binding:"required"`
	GroupID int64  `form:"group"`

	// Stored image filename after a successful upload, empty if none
	ImageName string `form:"-"`

	Errors map[string]string `form:"-"`
}

// CommentForm carries the comment submission fields and their validation state
type CommentForm struct {
	Text string `form:"text" binding:"required"`

	Errors map[string]string `form:"-"`
}

// Valid reports whether binding and validation produced no field errors
func (f *PostForm) Valid() bool { return len(f.Errors) == 0 }

// Valid reports whether binding and validation produced no field errors
func (f *CommentForm) Valid() bool { return len(f.Errors) == 0 }

// fieldErrors converts binding errors into human-readable per-field messages
func fieldErrors(err error) map[string]string {
	fieldErrs := make(map[string]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, ferr := range verrs {
			field := strings.ToLower(ferr.Field())
			switch ferr.Tag() {
			case "required":
				fieldErrs[field] = "This field is required."
			default:
				fieldErrs[field] = fmt.Sprintf("Invalid value for %s.", field)
			}
		}
		return fieldErrs
	}

	// Non-validator binding failure (bad multipart, wrong types)
	fieldErrs["form"] = "The submitted form could not be read."
	return fieldErrs
}

// bindPostForm binds and validates a post submission, including the
// optional group reference and image upload. On return the form either
// has no errors and is safe to persist, or carries field errors for
// redisplay. keepImage is the stored filename of the post being edited,
// kept when no replacement upload arrives.
func (s *WebServer) bindPostForm(c *gin.Context, keepImage string) *PostForm {
	var form PostForm
	form.Errors = make(map[string]string)

	if err := c.ShouldBind(&form); err != nil {
		form.Errors = fieldErrors(err)
	}

	if form.Errors["text"] == "" && strings.TrimSpace(form.Text) == "" {
		form.Errors["text"] = "This field is required."
	}

	// A group reference must point at a known group
	if form.GroupID != 0 && !s.groupExists(form.GroupID) {
		form.Errors["group"] = "Select a valid group."
	}

	form.ImageName = keepImage

	fileHeader, err := c.FormFile("image")
	if err == nil && fileHeader != nil {
		name, uploadErr := s.saveUploadedImage(fileHeader)
		if uploadErr != nil {
			form.Errors["image"] = uploadErr.Error()
		} else {
			form.ImageName = name
		}
	}

	return &form
}

func (s *WebServer) groupExists(groupID int64) bool {
	groups, err := s.DB.GetAllGroups()
	if err != nil {
		return false
	}
	for _, group := range groups {
		if group.ID == groupID {
			return true
		}
	}
	return false
}

// bindCommentForm binds and validates a comment submission
func bindCommentForm(c *gin.Context) *CommentForm {
	var form CommentForm
	form.Errors = make(map[string]string)

	if err := c.ShouldBind(&form); err != nil {
		form.Errors = fieldErrors(err)
	}

	if form.Errors["text"] == "" && strings.TrimSpace(form.Text) == "" {
		form.Errors["text"] = "This field is required."
	}

	return &form
}

// saveUploadedImage validates that the upload decodes as an image and
// stores it under the uploads directory with a generated name.
// The returned error text is a user-facing field error.
func (s *WebServer) saveUploadedImage(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > maxImageSize {
		return "", fmt.Errorf("Image must be smaller than %d MB.", maxImageSize/(1024*1024))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("Upload could not be read.")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("Upload could not be read.")
	}
	if int64(len(data)) > maxImageSize {
		return "", fmt.Errorf("Image must be smaller than %d MB.", maxImageSize/(1024*1024))
	}

	// Reject anything that does not decode as a real image
	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}

	if err := os.MkdirAll(s.Config.UploadsDir, 0o755); err != nil {
		log.Printf("Failed to create uploads dir '%s': %v", s.Config.UploadsDir, err)
		return "", fmt.Errorf("Image could not be stored.")
	}

	name := uuid.New().String() + "." + format
	if err := os.WriteFile(filepath.Join(s.Config.UploadsDir, name), data, 0o644); err != nil {
		log.Printf("Failed to store image '%s': %v", name, err)
		return "", fmt.Errorf("Image could not be stored.")
	}

	return name, nil
}

// notFoundErr reports whether a database error is a missing-row lookup
func notFoundErr(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}
