package handlers

import (
	"net/http"
	"strconv"

	"directChat/internal/errs"
	"directChat/internal/models"
	"directChat/internal/msgs"
	"directChat/internal/services"
	"directChat/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RestHandler struct {
	authService        *services.AuthenticationService
	chatService        *services.ChatService
	fileManagerService *services.FileManagerService
}

func NewRestHandler(
	authService *services.AuthenticationService,
	chatService *services.ChatService,
	fileManagerService *services.FileManagerService,
) *RestHandler {
	return &RestHandler{
		authService:        authService,
		chatService:        chatService,
		fileManagerService: fileManagerService,
	}
}

// Register godoc
// @Summary      Register a new user
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /register [post]
func (rh *RestHandler) Register(ctx *gin.Context) {
	var errors []error

	var user models.User
	if err := ctx.BindJSON(&user); err != nil {
		errors = append(errors, errs.ErrInvalidRequestBody)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  errors,
		})
		return
	}

	_, registerErrs := rh.authService.Register(&user)
	if len(registerErrs) > 0 {
		errors = append(errors, registerErrs...)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  errors,
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgUserCreatedSuccessfully,
	})
}

// Login godoc
// @Summary      Login user to account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /login [post]
func (rh *RestHandler) Login(ctx *gin.Context) {
	var errors []error

	var loginData models.LoginRequestBody
	if err := ctx.BindJSON(&loginData); err != nil {
		logger.Warn("error binding login body", zap.Error(err))
		errors = append(errors, errs.ErrInvalidRequestBody)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  errors,
		})
		return
	}

	loginResponse, loginErrs := rh.authService.Login(&loginData)
	if len(loginErrs) > 0 {
		errors = append(errors, loginErrs...)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  errors,
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    loginResponse,
	})
}

// GetUsers godoc
// @Summary      List users with pagination
// @Tags         accounts
// @Produce      json
// @Param        page  query  int  false  "Page"
// @Param        size  query  int  false  "Page size"
// @Success      200  {object}  models.Response
// @Router       /users [get]
func (rh *RestHandler) GetUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "20"))

	users, getErrs := rh.authService.GetAllUsersWithPagination(page, size)
	if len(getErrs) > 0 {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  getErrs,
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    users,
	})
}

// GetConversations godoc
// @Summary      List the actor's conversation summaries
// @Tags         chat
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      401  {object}  models.Response
// @Router       /conversations [get]
func (rh *RestHandler) GetConversations(ctx *gin.Context) {
	actorId := ctx.GetUint("user_id")
	if actorId == 0 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgYouMustLoginFirst,
			Errors:  []error{errs.ErrAuthenticationRequired},
		})
		return
	}

	conversations, getErrs := rh.chatService.GetConversations(ctx.Request.Context(), actorId)
	if len(getErrs) > 0 {
		ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  getErrs,
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    conversations,
	})
}

// GetThread godoc
// @Summary      Load the transcript with one partner and mark it read
// @Tags         chat
// @Produce      json
// @Param        partnerId  path  int  true  "Partner ID"
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /conversations/{partnerId}/messages [get]
func (rh *RestHandler) GetThread(ctx *gin.Context) {
	actorId := ctx.GetUint("user_id")
	partnerId, err := strconv.Atoi(ctx.Param("partnerId"))
	if err != nil || partnerId <= 0 {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidPartnerId},
		})
		return
	}

	messages, getErrs := rh.chatService.GetThread(ctx.Request.Context(), actorId, uint(partnerId))
	if len(getErrs) > 0 {
		status := http.StatusBadRequest
		for _, e := range getErrs {
			if e == errs.ErrStoreUnavailable {
				status = http.StatusServiceUnavailable
			}
		}
		ctx.AbortWithStatusJSON(status, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  getErrs,
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    messages,
	})
}

// SendMessage godoc
// @Summary      Send a direct message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /messages [post]
func (rh *RestHandler) SendMessage(ctx *gin.Context) {
	actorId := ctx.GetUint("user_id")

	var body models.SendMessageRequestBody
	if err := ctx.BindJSON(&body); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidRequestBody},
		})
		return
	}

	message, sendErrs := rh.chatService.SendMessage(ctx.Request.Context(), actorId, body.ReceiverID, body.Content)
	if len(sendErrs) > 0 {
		status := http.StatusBadRequest
		for _, e := range sendErrs {
			switch e {
			case errs.ErrAuthenticationRequired:
				status = http.StatusUnauthorized
			case errs.ErrStoreUnavailable:
				status = http.StatusServiceUnavailable
			}
		}
		ctx.AbortWithStatusJSON(status, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  sendErrs,
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgMessageSent,
		Data:    message,
	})
}

func (rh *RestHandler) UploadAvatar(ctx *gin.Context) {
	actorId := ctx.GetUint("user_id")
	if actorId == 0 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgYouMustLoginFirst,
			Errors:  []error{errs.ErrAuthenticationRequired},
		})
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidFile},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidFile},
		})
		return
	}
	defer file.Close()

	url, uploadErr := rh.fileManagerService.UploadUserAvatar(
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if uploadErr != nil {
		logger.Error("avatar upload failed", zap.Uint("user_id", actorId), zap.Error(uploadErr))
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{uploadErr},
		})
		return
	}

	if err := rh.authService.UpdateAvatarUrl(actorId, url); err != nil {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{err},
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgFileUploaded,
		Data:    gin.H{"url": url},
	})
}
