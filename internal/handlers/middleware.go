package handlers

import (
	"net/http"
	"strings"

	"directChat/internal/errs"
	"directChat/internal/models"
	"directChat/internal/msgs"
	"directChat/internal/utils"

	"github.com/gin-gonic/gin"
)

func (rh *RestHandler) MustAuthenticateMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		jwtToken := ctx.GetHeader("Authorization")
		jwtToken = strings.TrimPrefix(jwtToken, "Bearer ")

		if jwtToken == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgYouMustLoginFirst,
				Errors:  []error{errs.ErrAuthenticationRequired},
			})
			return
		}

		claims, err := utils.VerifyToken(jwtToken, utils.GetJwtKey())
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgYouMustLoginFirst,
				Errors:  []error{errs.ErrUnauthorized},
			})
			return
		}

		ctx.Set("user_id", claims.ID)
		ctx.Set("user_email", claims.Email)
		ctx.Set("user_username", claims.Username)
		ctx.Set("authenticated", true)
		ctx.Next()
	}
}
