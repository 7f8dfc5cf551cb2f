package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liamoar/CloudKitchen-sub001/config"
	"github.com/liamoar/CloudKitchen-sub001/middleware"
	"github.com/liamoar/CloudKitchen-sub001/services"
)

// GetProfile handles GET /api/v1/profile - the authenticated staff member's
// profile, fetched from the identity provider with the caller's own token.
func GetProfile(c *gin.Context) {
	cfg := config.GetConfig()

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "No access token found",
			},
		})
		return
	}

	userInfo, err := services.NewAuth0Service(cfg).GetUserInfo(accessToken)
	if err != nil {
		log.Printf("Failed to fetch user profile: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "IDENTITY_PROVIDER_ERROR",
				"message": "Failed to fetch staff profile",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    userInfo,
	})
}
