// Package web provides API routes for the web server.
package web

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/database"
	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
)

const apiTimeout = 10 * time.Second

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server) {
	api := s.Group("/api")
	{
		api.GET("/status", s.statusHandler)
		api.GET("/health", healthHandler)
		api.GET("/bot", botInfoHandler)
	}

	guilds := api.Group("/guilds/:guildId", s.requireModerator)
	{
		guilds.GET("/mutes", s.mutesHandler)
		guilds.GET("/users/:userId/warns", s.warnsHandler)
		guilds.GET("/blacklist", s.blacklistHandler)
	}
}

// statusHandler returns the bot, store and moderation status
func (s *Server) statusHandler(c *gin.Context) {
	mod, backend := s.moderation()

	botOnline := false
	if client := discord.Get(); client != nil {
		botOnline = client.IsReady()
	}

	body := gin.H{
		"status": "ok",
		"store": gin.H{
			"backend": backend,
		},
		"bot": gin.H{
			"isOnline": botOnline,
		},
	}

	if db := database.Get(); db != nil {
		dbStatus, dbOnline := db.GetStatus()
		body["database"] = gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		}
	}

	if mod != nil {
		opts := mod.Options()
		body["moderation"] = gin.H{
			"muteManager":      opts.MuteManager,
			"warnManager":      opts.WarnManager,
			"blacklistManager": opts.BlacklistManager,
			"maxWarns":         opts.Warn.MaxWarns,
			"warnPunishment":   opts.Warn.Punishment,
		}
	}

	c.JSON(http.StatusOK, body)
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "PancyModerator Go is running",
	})
}

// botInfoHandler returns information about the bot
func botInfoHandler(c *gin.Context) {
	client := discord.Get()

	if client == nil || !client.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
		})
		return
	}

	user := client.Session.State.User

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"discriminator": user.Discriminator,
		"avatar":        user.Avatar,
		"guilds":        client.GuildCount(),
		"isReady":       client.IsReady(),
	})
}

// requireModerator aborts with 503 until the moderation managers are set
func (s *Server) requireModerator(c *gin.Context) {
	if mod, _ := s.moderation(); mod == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Moderation Offline",
			"message": "El sistema de moderación no está disponible en este momento.",
		})
		return
	}
	c.Next()
}

// mutesHandler lists the active mutes of a guild
func (s *Server) mutesHandler(c *gin.Context) {
	mod, _ := s.moderation()
	ctx, cancel := context.WithTimeout(c.Request.Context(), apiTimeout)
	defer cancel()

	mutes, err := mod.Mutes.Guild(ctx, c.Param("guildId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(mutes), "data": mutes})
}

// warnsHandler lists the warnings of one member
func (s *Server) warnsHandler(c *gin.Context) {
	mod, _ := s.moderation()
	ctx, cancel := context.WithTimeout(c.Request.Context(), apiTimeout)
	defer cancel()

	member := &discordgo.Member{
		GuildID: c.Param("guildId"),
		User:    &discordgo.User{ID: c.Param("userId")},
	}
	list, err := mod.Warns.GetAll(ctx, member)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// blacklistHandler lists the blocked users of a guild
func (s *Server) blacklistHandler(c *gin.Context) {
	mod, _ := s.moderation()
	ctx, cancel := context.WithTimeout(c.Request.Context(), apiTimeout)
	defer cancel()

	blocks, err := mod.Blacklist.GetAll(ctx, c.Param("guildId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(blocks), "data": blocks})
}

// respondError maps a moderator error kind to an HTTP status
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := "InternalError"

	var modErr *moderator.Error
	if stderrors.As(err, &modErr) {
		kind = modErr.Kind.String()
		switch modErr.Kind {
		case moderator.KindParameterMissing, moderator.KindInvalidDuration:
			status = http.StatusBadRequest
		case moderator.KindManagerDisabled:
			status = http.StatusServiceUnavailable
		case moderator.KindMissingPermissions, moderator.KindMissingAccess:
			status = http.StatusForbidden
		case moderator.KindUserNotMuted, moderator.KindNoWarnData, moderator.KindWarnNotFound,
			moderator.KindUserNotBlocked, moderator.KindRoleNotFound:
			status = http.StatusNotFound
		case moderator.KindUserAlreadyMuted, moderator.KindUserAlreadyBlocked:
			status = http.StatusConflict
		}
	}

	c.JSON(status, gin.H{
		"error":   kind,
		"message": err.Error(),
		"status":  status,
	})
}
