package server

import (
	"github.com/Jim-devENG/ispora-engine-sub002/server/middlewares"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every feed backend endpoint onto the router. Read
// endpoints take optional auth and degrade to public scope; writes require a
// valid token.
func RegisterRoutes(router *gin.Engine, deps *Deps) {
	read := router.Group("/api", middlewares.OptionalAuth())
	{
		read.GET("/feed", FeedItemsHandler(deps))
		read.GET("/feed/stats", FeedStatsHandler(deps))
		read.GET("/feed/items/:id/likes", FeedItemLikesHandler(deps))
		read.GET("/feed/subscription", SubscriptionHandler(deps))
		read.GET("/projects", ProjectsHandler(deps))
	}

	write := router.Group("/api", middlewares.Protect())
	{
		write.POST("/feed/actions", RecordActionHandler(deps))
		write.POST("/feed/highlights", CreateHighlightHandler(deps))
		write.POST("/feed/items/:id/like", LikeFeedItemHandler(deps))
		write.POST("/feed/read", MarkReadHandler(deps))
		write.GET("/feed/read", ReadStatusHandler(deps))
		write.POST("/projects", CreateProjectHandler(deps))
		write.POST("/projects/:id/join", JoinProjectHandler(deps))
	}

	router.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
