package routes

import (
	"time"

	"yatube/auth"
	"yatube/cache"
	"yatube/config"
	"yatube/handlers"
	"yatube/models"
	"yatube/utils"
	"yatube/web"

	"github.com/gin-gonic/gin"
)

const mediaCacheSeconds = 7 * 86400

// PageKey keys cached pages by viewer and URI, the navigation differs per viewer
func PageKey(c *gin.Context) string {
	return "page:" + auth.ViewerKey(c) + ":" + c.Request.URL.RequestURI()
}

// Setup registers templates and every route. Sessions middleware must already be installed.
func Setup(router *gin.Engine, pageCache cache.Store) {
	router.SetHTMLTemplate(web.Templates())
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that
	router.NoRoute(handlers.NoRoute)

	// Custom Auth Router
	authRouter := &auth.Router{Base: router}

	// Feeds
	indexTTL := time.Duration(config.INDEX_CACHE_SECONDS) * time.Second
	cached := &auth.Router{Base: router.Group("/", cache.Page(pageCache, indexTTL, PageKey))}
	cached.PublicGET("/", handlers.Index)
	authRouter.PublicGET("/group/:slug/", handlers.GroupPosts)
	authRouter.PublicGET("/profile/:username/", handlers.Profile)
	authRouter.GET("/follow/", handlers.FollowIndex)
	// Posts
	authRouter.PublicGET("/posts/:id/", handlers.PostDetail)
	authRouter.Handle("/create/", handlers.PostCreate)
	authRouter.Handle("/posts/:id/edit/", handlers.PostEdit)
	authRouter.POST("/posts/:id/comment/", handlers.AddComment)
	// Follow graph
	authRouter.GET("/profile/:username/follow/", handlers.ProfileFollow)
	authRouter.GET("/profile/:username/unfollow/", handlers.ProfileUnfollow)

	// Accounts, form posts are rate limited per IP
	accounts := &auth.Router{Base: router.Group("/auth", utils.NewRateLimiter(config.LOGIN_RATE_PER_MINUTE).Handler())}
	accounts.PublicHandle("/signup/", handlers.Signup)
	accounts.PublicHandle("/login/", handlers.Login)
	accounts.PublicGET("/logout/", handlers.Logout)

	// Admin
	authRouter.POST("/admin/groups/", handlers.GroupCreate, models.PermissionAdmin)
	authRouter.POST("/admin/cache/clear/", handlers.CacheClear(pageCache), models.PermissionAdmin)

	// Misc
	media := router.Group("/media", (&utils.CacheRouter{CacheTime: mediaCacheSeconds, Public: true}).Handler())
	media.GET("/*path", web.Media)
	router.GET("/robots.txt", web.DisallowRobots)
}
