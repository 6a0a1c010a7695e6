package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arkdex/arkdex/backend/go-services/internal/scrape"
	"github.com/arkdex/arkdex/backend/go-services/internal/trivia"
	"github.com/arkdex/arkdex/backend/go-services/internal/trivia/service"
	"github.com/arkdex/arkdex/backend/go-services/pkg/metrics"
)

// Scraper triggers a live wiki scrape for one operator.
type Scraper interface {
	ScrapeTrivia(ctx context.Context, operator string) (*trivia.Record, error)
}

// Cache is the optional read-through document cache.
type Cache interface {
	Get(ctx context.Context, name string) (*trivia.Document, error)
	Put(ctx context.Context, doc *trivia.Document) error
	Invalidate(ctx context.Context, name string) error
}

// RegisterTriviaRoutes wires the trivia API onto the engine. scraper and
// docCache may be nil (scrape endpoint returns 503, reads go straight to
// the store). When authMW is non-nil it guards the write endpoints.
func RegisterTriviaRoutes(r *gin.Engine, svc service.Service, scraper Scraper, docCache Cache, authMW gin.HandlerFunc) {
	write := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if authMW != nil {
			return []gin.HandlerFunc{authMW, h}
		}
		return []gin.HandlerFunc{h}
	}

	r.GET("/api/operators", func(c *gin.Context) {
		list, err := svc.List()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out := make([]gin.H, 0, len(list))
		for _, rec := range list {
			out = append(out, gin.H{
				"name":      rec.Document.Name,
				"itemCount": len(rec.Document.TriviaItems),
				"updatedAt": rec.UpdatedAt,
			})
		}
		c.JSON(http.StatusOK, out)
	})

	r.GET("/api/operators/:name/trivia", func(c *gin.Context) {
		name := c.Param("name")

		if docCache != nil {
			if doc, err := docCache.Get(c.Request.Context(), name); err == nil && doc != nil {
				metrics.DocumentsServed.WithLabelValues("cache").Inc()
				c.JSON(http.StatusOK, doc)
				return
			}
		}

		rec, err := svc.Get(name)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if docCache != nil {
			_ = docCache.Put(c.Request.Context(), &rec.Document)
		}
		metrics.DocumentsServed.WithLabelValues("store").Inc()
		c.JSON(http.StatusOK, rec.Document)
	})

	r.PUT("/api/operators/:name/trivia", write(func(c *gin.Context) {
		name := c.Param("name")
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		doc, err := trivia.Decode(body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !strings.EqualFold(doc.Name, name) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "document name does not match path"})
			return
		}
		rec := &trivia.Record{Document: *doc}
		if err := svc.Save(rec); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if docCache != nil {
			_ = docCache.Invalidate(c.Request.Context(), name)
		}
		c.JSON(http.StatusOK, gin.H{"name": doc.Name, "itemCount": len(doc.TriviaItems)})
	})...)

	r.DELETE("/api/operators/:name/trivia", write(func(c *gin.Context) {
		name := c.Param("name")
		if err := svc.Delete(name); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if docCache != nil {
			_ = docCache.Invalidate(c.Request.Context(), name)
		}
		c.Status(http.StatusNoContent)
	})...)

	r.POST("/api/operators/:name/scrape", write(func(c *gin.Context) {
		if scraper == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scraper not configured"})
			return
		}
		name := c.Param("name")
		rec, err := scraper.ScrapeTrivia(c.Request.Context(), name)
		if err != nil {
			if errors.Is(err, scrape.ErrPageNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no trivia page for operator"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		if err := svc.Save(rec); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if docCache != nil {
			_ = docCache.Invalidate(c.Request.Context(), rec.Document.Name)
		}
		c.JSON(http.StatusOK, gin.H{
			"name":      rec.Document.Name,
			"itemCount": len(rec.Document.TriviaItems),
			"url":       rec.Document.URL,
			"fetchedAt": rec.FetchedAt,
		})
	})...)
}
