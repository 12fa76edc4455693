package handler

import (
	"log/slog"
	"net/http"

	"kaamsetu/internal/utils"

	"github.com/gin-gonic/gin"
)

const genericFailure = "Something went wrong, please try again"

// internalError logs the cause and answers with a body that reveals nothing about it
func internalError(c *gin.Context, log *slog.Logger, msg string, err error) {
	log.Error(msg, utils.Err(err), slog.String("path", c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, gin.H{"error": genericFailure})
}
