package cmd

import (
	"fmt"
	"net/http"

	"taxon/internal/apihandlers"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Starts an HTTP server exposing classification, posts, categories and
related-post search via a RESTful API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		router := gin.Default()
		apiHandler := apihandlers.NewAPIHandler(appInstance)

		v1 := router.Group("/api/v1")
		{
			v1.POST("/classify", apiHandler.ClassifyHandler)

			postGroup := v1.Group("/posts")
			{
				postGroup.POST("", apiHandler.CreatePostHandler)
				postGroup.GET("/:id", apiHandler.GetPostHandler)
				postGroup.POST("/:id/classify", apiHandler.ReclassifyPostHandler)
				postGroup.POST("/:id/embed", apiHandler.EmbedPostHandler)
				postGroup.GET("/:id/related", apiHandler.RelatedPostsHandler)
			}

			categoryGroup := v1.Group("/categories")
			{
				categoryGroup.GET("", apiHandler.ListCategoriesHandler)
				categoryGroup.POST("", apiHandler.CreateCategoryHandler)
				categoryGroup.GET("/:id", apiHandler.GetCategoryHandler)
				categoryGroup.PUT("/:id", apiHandler.UpdateCategoryHandler)
				categoryGroup.DELETE("/:id", apiHandler.DeleteCategoryHandler)
				categoryGroup.POST("/validate", apiHandler.ValidateCategoriesHandler)
			}
		}

		router.GET("/health", func(c *gin.Context) {
			if err := appInstance.CategoryStore.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		listenAddr := serveAddr
		if listenAddr == "" {
			listenAddr = appInstance.Config.Server.Address
		}
		log.Infof("Starting API server on %s", listenAddr)
		if err := router.Run(listenAddr); err != nil {
			return fmt.Errorf("failed to run API server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.address from config)")
}
