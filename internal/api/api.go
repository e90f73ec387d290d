package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"skincompass/internal/adapter"
	"skincompass/internal/cache"
	"skincompass/internal/currency"
	"skincompass/internal/feeds"
	"skincompass/internal/pricing"
	"skincompass/internal/settings"
)

type APIHandler struct {
	pipeline    *adapter.Pipeline
	comparisons *cache.ComparisonCache
	converter   *currency.Converter
	refresher   *feeds.Refresher
	settings    *settings.Settings
	log         *logrus.Entry
}

func SetupRoutes(r *gin.RouterGroup, pipeline *adapter.Pipeline, comparisons *cache.ComparisonCache,
	converter *currency.Converter, refresher *feeds.Refresher, s *settings.Settings, log *logrus.Entry) *APIHandler {

	handler := &APIHandler{
		pipeline:    pipeline,
		comparisons: comparisons,
		converter:   converter,
		refresher:   refresher,
		settings:    s,
		log:         log,
	}

	r.GET("/price/:name", handler.GetComparison)
	r.POST("/resolve", handler.Resolve)
	r.GET("/rates", handler.GetRates)
	r.GET("/markets", handler.ListMarkets)
	r.POST("/refresh/:source", handler.RefreshSource)

	return handler
}

// GetComparison serves the multi-market comparison for one canonical name,
// from cache when fresh. The steam id comes from settings, overridable per
// request via the X-Steam-Id header.
func (h *APIHandler) GetComparison(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item name required"})
		return
	}

	steamID := c.GetHeader("X-Steam-Id")
	if steamID == "" {
		steamID = h.settings.SteamID()
	}

	result, err := h.comparisons.GetOrFetch(c.Request.Context(), name, steamID)
	if err != nil {
		h.log.WithError(err).WithField("name", name).Warn("comparison fetch failed")
		// Treated as data-absent: empty map, the caller renders nothing.
		c.JSON(http.StatusOK, gin.H{"data": gin.H{}, "fromCache": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result.Data, "fromCache": result.FromCache})
}

type resolveRequest struct {
	Market string `json:"market" binding:"required"`
	Key    string `json:"key"`
}

// Resolve runs the full annotation pipeline for one intercepted item. A
// missing annotation is a 204, not an error; the element simply stays bare.
func (h *APIHandler) Resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ann, ok := h.pipeline.Annotate(c.Request.Context(), req.Market, req.Key)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"annotation":      ann,
		"dataBetterfloat": ann.DataAttribute(),
	})
}

func (h *APIHandler) GetRates(c *gin.Context) {
	table := h.converter.Table()
	c.JSON(http.StatusOK, gin.H{
		"lastUpdate": table.LastUpdate,
		"rates":      table.Rates,
	})
}

func (h *APIHandler) ListMarkets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"markets": h.pipeline.Markets()})
}

// RefreshSource triggers an on-demand price refresh for one source. The
// 10-minute debounce applies; a debounced call still answers 202.
func (h *APIHandler) RefreshSource(c *gin.Context) {
	source := pricing.MarketSource(c.Param("source"))
	if !source.Valid() || source == pricing.SourceNone {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown market source"})
		return
	}

	go func() {
		if err := h.refresher.RefreshSource(context.Background(), source); err != nil {
			h.log.WithError(err).WithField("source", source).Warn("on-demand refresh failed")
		}
	}()
	c.JSON(http.StatusAccepted, gin.H{"status": "refreshing", "source": source})
}
