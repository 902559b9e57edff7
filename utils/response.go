package utils

import "github.com/gin-gonic/gin"

// Success writes a 200 response with success=true merged with extra fields.
// The {success, ...} / {error} envelope is the contract the platform's web
// client already speaks, so it is kept verbatim.
func Success(ctx *gin.Context, data gin.H) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	ctx.JSON(200, body)
}

// Error writes an error response with the given HTTP status.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}
