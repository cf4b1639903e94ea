package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/user-admin/internal/application"
	"github.com/oksasatya/user-admin/internal/interface/presenter"
	"github.com/oksasatya/user-admin/pkg/response"
	"github.com/oksasatya/user-admin/pkg/validation"
)

// UserHandler serves the admin user endpoints. MaxImageBytes bounds how much
// of an uploaded image is read; 0 reads all of it.
type UserHandler struct {
	Svc           *userapp.Service
	Presenter     *presenter.UserPresenter
	Logger        *logrus.Logger
	MaxImageBytes int64
}

func NewUserHandler(svc *userapp.Service, p *presenter.UserPresenter, logger *logrus.Logger, maxImageBytes int64) *UserHandler {
	return &UserHandler{Svc: svc, Presenter: p, Logger: logger, MaxImageBytes: maxImageBytes}
}

type createUserRequest struct {
	Name                 string `json:"name" form:"name"`
	Email                string `json:"email" form:"email"`
	Password             string `json:"password" form:"password"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation"`
}

type updateUserRequest struct {
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
}

type setStatusRequest struct {
	Status string `json:"status" form:"status" binding:"required"`
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	views := h.Presenter.Many(users)
	response.Success(c, http.StatusOK, views, "users", map[string]any{"total": len(views)})
}

func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	users, err := h.Svc.SearchUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.Presenter.Many(users), "users", nil)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	img, err := h.readImage(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	u, err := h.Svc.Create(c.Request.Context(), userapp.CreateUserInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		Image:                img,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, h.Presenter.One(*u), "user has been saved successfully", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	img, err := h.readImage(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	u, err := h.Svc.Update(c.Request.Context(), c.Param("id"), userapp.UpdateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Image: img,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.Presenter.One(*u), "user has been saved successfully", nil)
}

func (h *UserHandler) SetStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	msg := "User has been block"
	if u.IsActive {
		msg = "User has been activate"
	}
	response.Success(c, http.StatusOK, h.Presenter.One(*u), msg, nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id}, "User has been deleted successfully", nil)
}

// readImage returns nil when no image was submitted. A non-file "image" value
// is passed on empty so the service reports it.
func (h *UserHandler) readImage(c *gin.Context) (*userapp.ImageUpload, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		if c.PostForm("image") != "" {
			return &userapp.ImageUpload{}, nil
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if h.MaxImageBytes > 0 {
		// One extra byte lets the size check see the overflow.
		r = io.LimitReader(f, h.MaxImageBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &userapp.ImageUpload{Filename: fh.Filename, Data: data}, nil
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	var verr *userapp.ValidationError
	var cerr *userapp.ConflictError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", verr.Fields)
	case errors.As(err, &cerr):
		response.Error[any](c, http.StatusConflict, "conflict", cerr.Fields())
	case errors.Is(err, userapp.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("path", c.FullPath()).Error("user request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}
