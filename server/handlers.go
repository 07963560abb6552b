// Package server is the backend of record behind the feed aggregation
// client: REST endpoints over Postgres for feed items, actions, highlights
// and projects, Redis-backed engagement counters, and a websocket feed-event
// stream.
package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/Jim-devENG/ispora-engine-sub002/bot"
	"github.com/Jim-devENG/ispora-engine-sub002/feed"
	"github.com/Jim-devENG/ispora-engine-sub002/model"
	"github.com/Jim-devENG/ispora-engine-sub002/realtime"
	"github.com/Jim-devENG/ispora-engine-sub002/server/middlewares"
	"github.com/Jim-devENG/ispora-engine-sub002/utils"
	Logger "github.com/Jim-devENG/ispora-engine-sub002/utils/log"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 200
)

var upgrader = websocket.Upgrader{
	// The subscription endpoint is token-gated; cross-origin browsers are
	// expected.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Deps carries every collaborator the handlers need. Statsd, Bus and
// Notifier may be nil; the corresponding side effects are skipped.
type Deps struct {
	DB       *gorm.DB
	Redis    *utils.RedisClient
	Channels *realtime.FeedEventChannels
	Statsd   *statsd.Client
	Bus      *gochannel.GoChannel
	Notifier *bot.HighlightNotifier
}

func (d *Deps) count(name string, tags ...string) {
	if d.Statsd == nil {
		return
	}
	if err := d.Statsd.Incr(name, tags, 1); err != nil {
		Logger.Log.Info("cannot report counter ", name)
	}
}

// visibilityTiers returns the visibility values a request may read, derived
// from its resolved viewer scope. Private items are never served.
func visibilityTiers(c *gin.Context) []model.Visibility {
	if c.GetString(middlewares.ViewerScopeKey) == middlewares.ScopeAuthenticated {
		return []model.Visibility{model.VisibilityPublic, model.VisibilityAuthenticated}
	}
	return []model.Visibility{model.VisibilityPublic}
}

// FeedItemsHandler serves GET /api/feed: the filtered, ordered feed read API.
func FeedItemsHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultFeedLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid limit"})
				return
			}
			limit = parsed
		}
		if limit > maxFeedLimit {
			limit = maxFeedLimit
		}

		query := deps.DB.Model(&model.FeedItem{}).
			Where("visibility IN ?", visibilityTiers(c))

		if category := c.Query("category"); category != "" {
			query = query.Where("LOWER(category) LIKE ?", "%"+strings.ToLower(category)+"%")
		}
		if user := c.Query("user"); user != "" {
			pattern := "%" + strings.ToLower(user) + "%"
			query = query.Where(
				"LOWER(author_name) LIKE ? OR LOWER(title) LIKE ? OR LOWER(description) LIKE ?",
				pattern, pattern, pattern,
			)
		}
		if min := model.Significance(c.Query("min_significance")); min != "" {
			query = query.Where("significance IN ?", significanceAtLeast(min))
		}
		if c.Query("include_highlights") == "false" {
			query = query.Where("is_admin_curated = ?", false)
		}

		var items []*model.FeedItem
		if err := query.
			Order("is_pinned DESC").
			Order("created_at DESC").
			Limit(limit).
			Find(&items).Error; err != nil {
			Logger.Log.Error("fail to query feed items: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "fail to query feed items"})
			return
		}

		now := time.Now()
		if c.Query("include_expired") == "false" {
			items = feed.FilterExpired(items, now)
		}
		// Stored display strings go stale; re-render from the canonical
		// timestamp.
		for _, item := range items {
			item.Timestamp = feed.FormatRelativeTime(item.CreatedAt, now)
		}

		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func significanceAtLeast(min model.Significance) []model.Significance {
	levels := []model.Significance{
		model.SignificanceLow,
		model.SignificanceMedium,
		model.SignificanceHigh,
		model.SignificanceCritical,
	}
	kept := []model.Significance{}
	for _, level := range levels {
		if level.Rank() >= min.Rank() {
			kept = append(kept, level)
		}
	}
	return kept
}

// RecordActionHandler serves POST /api/feed/actions: persists the action and,
// when a derivation rule exists, the derived feed item, then broadcasts the
// insertion.
func RecordActionHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var action model.UserAction
		if err := c.ShouldBindJSON(&action); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid action payload"})
			return
		}
		action.Id = "action_" + uuid.New().String()
		action.CreatedAt = time.Now()
		if action.UserId == "" {
			action.UserId = c.GetString(middlewares.SubKey)
		}

		item := feed.DeriveFeedItem(&action, time.Now())

		var txn utils.GormTransaction = func(tx *gorm.DB) error {
			if err := tx.Create(&action).Error; err != nil {
				return err
			}
			if item != nil {
				return tx.Create(item).Error
			}
			return nil
		}
		if err := deps.DB.Transaction(txn); err != nil {
			Logger.Log.Error("fail to record user action: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "fail to record action"})
			return
		}

		deps.count("feed.action.recorded", "action_type:"+string(action.ActionType))
		if item == nil {
			// Unmapped action types are logged, not errors.
			c.JSON(http.StatusAccepted, gin.H{"action": action})
			return
		}

		deps.Channels.Broadcast(&model.FeedEvent{Type: model.FeedEventInsert, Item: item})
		c.JSON(http.StatusCreated, gin.H{"action": action, "item": item})
	}
}

// CreateHighlightHandler serves POST /api/feed/highlights: stores the
// highlight and its derived feed item in one transaction, broadcasts the
// insertion and notifies the editorial channel.
func CreateHighlightHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var highlight model.AdminHighlight
		if err := c.ShouldBindJSON(&highlight); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid highlight payload"})
			return
		}
		if highlight.Visibility == model.VisibilityPrivate {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "highlights cannot be private"})
			return
		}
		if highlight.Visibility == "" {
			highlight.Visibility = model.VisibilityPublic
		}
		highlight.Id = "highlight_" + uuid.New().String()
		highlight.CreatedAt = time.Now()
		if highlight.CreatedBy == "" {
			highlight.CreatedBy = c.GetString(middlewares.SubKey)
		}

		item := feed.ConvertHighlightToFeedItem(&highlight, time.Now())

		// The highlight and its derived item persist atomically (1:1
		// invariant).
		var txn utils.GormTransaction = func(tx *gorm.DB) error {
			if err := tx.Create(&highlight).Error; err != nil {
				return err
			}
			return tx.Create(item).Error
		}
		if err := deps.DB.Transaction(txn); err != nil {
			Logger.Log.Error("fail to create admin highlight: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "fail to create highlight"})
			return
		}

		deps.count("feed.highlight.created", "highlight_type:"+string(highlight.Type))
		deps.Channels.Broadcast(&model.FeedEvent{Type: model.FeedEventInsert, Item: item})
		go deps.Notifier.NotifyHighlight(&highlight)

		c.JSON(http.StatusCreated, gin.H{"highlight": highlight, "item": item})
	}
}

// FeedStatsHandler serves GET /api/feed/stats.
func FeedStatsHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		base := deps.DB.Model(&model.FeedItem{}).
			Where("visibility IN ?", visibilityTiers(c))

		var stats feed.Stats
		var count int64

		base.Session(&gorm.Session{}).Count(&count)
		stats.TotalItems = int(count)

		base.Session(&gorm.Session{}).Where("is_admin_curated = ?", true).Count(&count)
		stats.AdminHighlights = int(count)
		stats.UserGenerated = stats.TotalItems - stats.AdminHighlights

		base.Session(&gorm.Session{}).Where("visibility = ?", model.VisibilityPublic).Count(&count)
		stats.PublicItems = int(count)

		base.Session(&gorm.Session{}).Where("is_live = ?", true).Count(&count)
		stats.LiveEvents = int(count)

		base.Session(&gorm.Session{}).Where("created_at > ?", time.Now().Add(-24*time.Hour)).Count(&count)
		stats.RecentActivity = int(count)

		c.JSON(http.StatusOK, stats)
	}
}

// ProjectsHandler serves GET /api/projects: the project read API the
// aggregation client uses as its derivation backstop.
func ProjectsHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var projects []*model.Project
		if err := deps.DB.
			Where("is_public = ?", true).
			Order("created_at DESC").
			Find(&projects).Error; err != nil {
			Logger.Log.Error("fail to query projects: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "fail to query projects"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"projects": projects})
	}
}

// CreateProjectHandler serves POST /api/projects and announces the creation
// on the local bus so same-process consumers refresh without a network round
// trip.
func CreateProjectHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var project model.Project
		if err := c.ShouldBindJSON(&project); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid project payload"})
			return
		}
		if project.Id == "" {
			project.Id = "proj_" + uuid.New().String()
		}
		project.CreatedAt = time.Now()
		if project.AuthorId == "" {
			project.AuthorId = c.GetString(middlewares.SubKey)
		}

		if err := deps.DB.Create(&project).Error; err != nil {
			Logger.Log.Error("fail to create project: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "fail to create project"})
			return
		}

		deps.count("project.created")
		if deps.Bus != nil {
			if err := utils.PublishProjectCreated(deps.Bus, project.Id); err != nil {
				Logger.Log.Warn("fail to publish project created signal: ", err)
			}
		}

		c.JSON(http.StatusCreated, gin.H{"project": project})
	}
}

// JoinProjectHandler serves POST /api/projects/:id/join. Re-joining is a
// no-op.
func JoinProjectHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectId := c.Param("id")

		var project model.Project
		if deps.DB.Where("id = ?", projectId).First(&project).RowsAffected != 1 {
			c.JSON(http.StatusNotFound, gin.H{"msg": "project not found"})
			return
		}

		member := model.ProjectMember{
			ProjectId: projectId,
			UserId:    c.GetString(middlewares.SubKey),
			CreatedAt: time.Now(),
		}
		if err := deps.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error; err != nil {
			Logger.Log.Error("fail to join project: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "fail to join project"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"joined": member})
	}
}

// LikeFeedItemHandler serves POST /api/feed/items/:id/like against the
// authoritative Redis counter.
func LikeFeedItemHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		likes, err := deps.Redis.LikeFeedItem(c.Param("id"))
		if err != nil {
			Logger.Log.Error("fail to like feed item: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "fail to like item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"likes": likes})
	}
}

// FeedItemLikesHandler serves GET /api/feed/items/:id/likes.
func FeedItemLikesHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		likes, err := deps.Redis.GetFeedItemLikes(c.Param("id"))
		if err != nil {
			Logger.Log.Error("fail to read feed item likes: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "fail to read likes"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"likes": likes})
	}
}

// MarkReadHandler serves POST /api/feed/read: marks items read for the
// calling user.
func MarkReadHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			ItemIds []string `json:"itemIds"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || len(body.ItemIds) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "itemIds required"})
			return
		}
		if err := deps.Redis.MarkItemsAsRead(body.ItemIds, c.GetString(middlewares.SubKey)); err != nil {
			Logger.Log.Error("fail to mark items as read: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "fail to mark items read"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ReadStatusHandler serves GET /api/feed/read?ids=a,b,c for the calling user.
func ReadStatusHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids := strings.Split(c.Query("ids"), ",")
		if len(ids) == 1 && ids[0] == "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "ids required"})
			return
		}
		status, err := deps.Redis.GetItemsReadStatus(ids, c.GetString(middlewares.SubKey))
		if err != nil {
			Logger.Log.Error("fail to read item read status: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "fail to read status"})
			return
		}
		read := gin.H{}
		for i, id := range ids {
			read[id] = status[i]
		}
		c.JSON(http.StatusOK, gin.H{"read": read})
	}
}

// SubscriptionHandler serves GET /api/feed/subscription: upgrades to a
// websocket and streams feed events until either side closes.
func SubscriptionHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			Logger.Log.Warn("fail to upgrade feed subscription: ", err)
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		// Drain the connection so client closes are observed.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					cancel()
					return
				}
			}
		}()

		ch, chId := deps.Channels.AddNewConnection(ctx)
		Logger.Log.Info("feed subscription opened: ", chId)

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-ch:
				if err := conn.WriteJSON(event); err != nil {
					Logger.Log.Info("feed subscription closed: ", chId)
					return
				}
			}
		}
	}
}
