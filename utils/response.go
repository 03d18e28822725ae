package utils

import "github.com/gin-gonic/gin"

// Message writes the standard success envelope.
func Message(ctx *gin.Context, message string) {
	ctx.JSON(200, gin.H{"message": message})
}

// Error writes the standard error envelope with the given status code.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}
