package controllers

import "github.com/gin-gonic/gin"

// sendSuccess wraps data in the API envelope the frontend expects.
func sendSuccess(c *gin.Context, code int, message string, data any) {
	body := gin.H{
		"status":  "success",
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(code, body)
}
