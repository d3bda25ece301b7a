package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"account-api/internal/domain"
	"account-api/internal/service"
)

// Response messages. The exact strings are part of the API contract.
const (
	msgSignupSuccess = "Account successfully created"
	msgSignupFailed  = "Account creation failed"
	msgUserDetails   = "User details by user_id"
	msgUpdateSuccess = "User successfully updated"
	msgUpdateFailed  = "User updation failed"
	msgNoPermission  = "No permission for update"
	msgAuthFailed    = "Authentication failed"
	msgNoUser        = "No user found"
	msgCloseSuccess  = "Account and user successfully removed"
	msgInternalError = "Internal server error"
)

// Handler wires HTTP routes to the account service.
type Handler struct {
	accounts service.AccountService
	logger   *logrus.Logger
}

func NewHandler(accounts service.AccountService, logger *logrus.Logger) *Handler {
	return &Handler{
		accounts: accounts,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger))
	router.Use(bodyLimit(maxBodyBytes))
	router.Use(corsMiddleware())

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, apiResponse{Message: "Method not allowed"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, apiResponse{Message: "Not found"})
	})

	router.POST("/signup", h.signUp)
	router.GET("/users/:user_id", h.getUser)
	router.PATCH("/users/:user_id", h.updateUser)
	router.POST("/close", h.closeAccount)
	router.GET("/healthz", h.healthz)
}

type signUpRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Nickname *string `json:"nickname"`
	Comment  *string `json:"comment"`
	UserID   *string `json:"user_id"`
	Password *string `json:"password"`
}

type userDetail struct {
	UserID   string  `json:"user_id"`
	Nickname string  `json:"nickname"`
	Comment  *string `json:"comment,omitempty"`
}

type apiResponse struct {
	Message string      `json:"message"`
	Cause   string      `json:"cause,omitempty"`
	User    *userDetail `json:"user,omitempty"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiResponse{Message: msgSignupFailed, Cause: domain.CauseCredentialsRequired})
		return
	}

	user, err := h.accounts.SignUp(c.Request.Context(), req.UserID, req.Password)
	if err != nil {
		h.writeError(c, msgSignupFailed, err)
		return
	}
	c.JSON(http.StatusOK, apiResponse{Message: msgSignupSuccess, User: userToDetail(*user)})
}

func (h *Handler) getUser(c *gin.Context) {
	creds, ok := basicCredentials(c)
	if !ok {
		writeAuthRequired(c)
		return
	}

	user, err := h.accounts.GetProfile(c.Request.Context(), creds, c.Param("user_id"))
	if err != nil {
		h.writeError(c, "", err)
		return
	}
	c.JSON(http.StatusOK, apiResponse{Message: msgUserDetails, User: userToDetail(*user)})
}

func (h *Handler) updateUser(c *gin.Context) {
	creds, ok := basicCredentials(c)
	if !ok {
		writeAuthRequired(c)
		return
	}

	// An undecodable body counts as carrying no fields; the service
	// still runs the auth and ownership checks first.
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = updateUserRequest{}
	}

	patch := domain.ProfilePatch{
		Nickname: req.Nickname,
		Comment:  req.Comment,
		UserID:   req.UserID,
		Password: req.Password,
	}
	user, err := h.accounts.UpdateProfile(c.Request.Context(), creds, c.Param("user_id"), patch)
	if err != nil {
		h.writeError(c, msgUpdateFailed, err)
		return
	}
	c.JSON(http.StatusOK, apiResponse{Message: msgUpdateSuccess, User: userToDetail(*user)})
}

func (h *Handler) closeAccount(c *gin.Context) {
	creds, ok := basicCredentials(c)
	if !ok {
		writeAuthRequired(c)
		return
	}

	if err := h.accounts.CloseAccount(c.Request.Context(), creds); err != nil {
		h.writeError(c, "", err)
		return
	}
	c.JSON(http.StatusOK, apiResponse{Message: msgCloseSuccess})
}

func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeError maps service errors onto the response contract.
// badRequestMsg is the message paired with a validation cause; routes
// that cannot produce one pass an empty string.
func (h *Handler) writeError(c *gin.Context, badRequestMsg string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, apiResponse{Message: badRequestMsg, Cause: verr.Cause})
	case errors.Is(err, service.ErrAuthenticationFailed):
		writeAuthRequired(c)
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, apiResponse{Message: msgNoPermission})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, apiResponse{Message: msgNoUser})
	default:
		h.logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Errorf("handle request: %v", err)
		c.JSON(http.StatusInternalServerError, apiResponse{Message: msgInternalError})
	}
}

func basicCredentials(c *gin.Context) (service.Credentials, bool) {
	name, password, ok := c.Request.BasicAuth()
	if !ok {
		return service.Credentials{}, false
	}
	return service.Credentials{UserID: name, Password: password}, true
}

func writeAuthRequired(c *gin.Context) {
	c.Header("WWW-Authenticate", `Basic realm="account-api"`)
	c.JSON(http.StatusUnauthorized, apiResponse{Message: msgAuthFailed})
}

func userToDetail(u domain.User) *userDetail {
	d := &userDetail{
		UserID:   u.UserID,
		Nickname: u.Nickname,
	}
	if u.Comment != "" {
		d.Comment = &u.Comment
	}
	return d
}
