package core

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError sends unified error payload {"error": {"code", "message"}}.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

// respondResult maps a backend Result onto the browser-facing response.
// Operational failures (backend down, timeout, bad status, garbage body)
// become a generic 502 with the underlying detail preserved; business
// rejections carry the backend's own message; transport+business success
// passes the payload through unchanged.
func respondResult(c *gin.Context, r Result) {
	if !r.OK {
		respondOperational(c, r)
		return
	}
	if !r.BusinessOK() {
		msg := r.Message()
		if msg == "" {
			msg = "request rejected"
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": string(ErrBusiness), "message": msg}})
		return
	}
	c.JSON(http.StatusOK, r.Data)
}

// respondOperational surfaces transport/protocol/decode failures as
// "cannot complete request" while keeping the classification and raw
// detail available for diagnostics.
func respondOperational(c *gin.Context, r Result) {
	body := gin.H{"code": string(r.Kind), "message": "cannot complete request", "detail": r.Err}
	if len(r.Details) > 0 {
		body["details"] = r.Details
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": body})
}

// respondValidation rejects input before any network call is made.
func respondValidation(c *gin.Context, v Validation) {
	respondError(c, http.StatusBadRequest, string(ErrValidation), v.Error)
}
