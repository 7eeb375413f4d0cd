package main

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"rijkslens/config"
	"rijkslens/models"
	"rijkslens/providers/rijks"
	"rijkslens/services"
	"rijkslens/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	searchesCounter       prometheus.Counter
	resolvedCounter       prometheus.Counter
	resolveFailureCounter prometheus.Counter
	probesCounter         *prometheus.CounterVec
)

func init() {
	searchesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "searches_total",
			Help: "Total number of collection searches served.",
		},
	)
	resolvedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "artworks_resolved_total",
			Help: "Total number of artwork records resolved through the mapper.",
		},
	)
	resolveFailureCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "artwork_resolve_failures_total",
			Help: "Total number of single-object lookups that could not be resolved.",
		},
	)
	probesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_probes_total",
			Help: "Total number of image reachability probes by outcome.",
		},
		[]string{"outcome"},
	)
	prometheus.MustRegister(searchesCounter, resolvedCounter, resolveFailureCounter, probesCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database (lokaler Record-Cache)
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to open local collection database", zap.Error(err))
	}
	logging.Info("Local collection database opened.", zap.String("path", cfg.DBPath))

	logging.Info("Running database auto-migration...")
	db.AutoMigrate(&models.CachedRecord{})

	// Setup Stores
	jsonStore, err := storage.NewJSONStore(cfg.DataDir)
	if err != nil {
		logging.Fatal("Failed to create data directory", zap.Error(err))
	}
	selection := storage.NewSelectionStore(jsonStore)
	eventLog, err := storage.NewEventLog(cfg.DataDir, logging)
	if err != nil {
		logging.Fatal("Failed to create analytics log", zap.Error(err))
	}
	recordCache := storage.NewRecordCache(db, cfg.RecordCacheTTL(), logging)

	// Setup Upstream + Services
	heuristics := services.LoadHeuristics(cfg.HeuristicsFile)
	client := rijks.NewClient(cfg, logging)
	scraper := services.NewPageScraper(client, logging, heuristics)
	mapper := services.NewRecordMapper(logging, scraper, heuristics, cfg.CollectionBaseURL, cfg.ImageTargetWidth)
	searchService := services.NewSearchService(client, client, mapper, logging,
		cfg.Fields(), cfg.MaxResultsPerSearch, cfg.ResolveWorkers)
	artworkService := services.NewArtworkService(client, mapper, recordCache, logging)
	prober := services.NewImageProber(client.ProbeClient(), logging, cfg.ProbeCacheTTL())

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Routes
	setupSearchRoutes(router, searchService, recordCache, logging)
	setupArtworkRoutes(router, artworkService, recordCache, cfg, logging)
	setupProbeRoutes(router, prober)
	setupSelectionRoutes(router, selection, logging)
	setupNoteRoutes(router, selection, logging)
	setupExportRoutes(router, selection, eventLog, logging)
	setupAnalyticsRoutes(router, eventLog, selection, recordCache, cfg, logging)

	// Setup Cron: Probe-Cache-Sweep und Record-Cache-Pruning
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		logging.Info("Running scheduled cache maintenance...")
		sweptProbes := prober.Sweep()
		prunedRecords := recordCache.Prune()
		logging.Info("Cache maintenance completed",
			zap.Int("probe_entries_removed", sweptProbes),
			zap.Int64("cached_records_removed", prunedRecords))
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupSearchRoutes(router *gin.Engine, searchService *services.SearchService, cache *storage.RecordCache, log *zap.Logger) {
	router.GET("/search", func(c *gin.Context) {
		params := models.SearchParams{
			Query:      c.Query("query"),
			ObjectType: c.Query("object_type"),
			Sort:       models.ParseSortMode(c.Query("sort")),
			Page:       intQuery(c, "page", 1),
			PageSize:   intQuery(c, "page_size", 20),
		}
		if params.Query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
			return
		}

		result := searchService.Search(c.Request.Context(), params)
		searchesCounter.Inc()
		resolvedCounter.Add(float64(result.Total))

		// Treffer wandern nebenbei in den lokalen Korpus.
		for _, art := range result.Items {
			cache.Put(art)
		}
		c.JSON(http.StatusOK, result)
	})

	// Offline-Suche über den lokalen sqlite-Korpus, ohne Upstream.
	router.GET("/local/search", func(c *gin.Context) {
		query := c.Query("query")
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
			return
		}
		items := cache.Search(query, intQuery(c, "limit", 100))
		services.SortArtworks(items, models.ParseSortMode(c.Query("sort")))
		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	})
}

func setupArtworkRoutes(router *gin.Engine, artworks *services.ArtworkService, cache *storage.RecordCache, cfg *config.Config, log *zap.Logger) {
	rg := router.Group("/artworks")

	rg.GET("/:code", func(c *gin.Context) {
		code := c.Param("code")
		art, err := artworks.FetchByObjectNumber(c.Request.Context(), code)
		if err != nil {
			log.Warn("Artwork lookup failed", zap.String("object_number", code), zap.Error(err))
			resolveFailureCounter.Inc()
			c.JSON(http.StatusNotFound, gin.H{"error": "artwork not found"})
			return
		}
		resolvedCounter.Inc()
		cache.Put(art)
		c.JSON(http.StatusOK, art)
	})

	// Roh-Dokument, nur im Dev-Modus erreichbar.
	rg.GET("/:code/raw", func(c *gin.Context) {
		if !cfg.DevMode {
			c.JSON(http.StatusForbidden, gin.H{"error": "raw records are only available in dev mode"})
			return
		}
		raw, err := artworks.FetchRawRecord(c.Request.Context(), c.Param("code"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		c.JSON(http.StatusOK, raw)
	})
}

func setupProbeRoutes(router *gin.Engine, prober *services.ImageProber) {
	router.POST("/probe", func(c *gin.Context) {
		var req struct {
			URL string `json:"url" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'url' field is required."})
			return
		}
		result := prober.Probe(c.Request.Context(), req.URL)
		probesCounter.WithLabelValues(string(result.Status)).Inc()
		c.JSON(http.StatusOK, result)
	})
}

func setupSelectionRoutes(router *gin.Engine, selection *storage.SelectionStore, log *zap.Logger) {
	rg := router.Group("/selection")

	rg.GET("/", func(c *gin.Context) {
		items, err := selection.List()
		if err != nil {
			log.Error("Failed to load selection", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	})

	rg.PUT("/:code", func(c *gin.Context) {
		var art models.Artwork
		if err := c.ShouldBindJSON(&art); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		code := c.Param("code")
		if art.ObjectNumber == "" {
			art.ObjectNumber = code
		}
		if art.ObjectNumber != code {
			c.JSON(http.StatusBadRequest, gin.H{"error": "object number in path and body differ"})
			return
		}
		if err := selection.Put(art); err != nil {
			log.Error("Failed to save favorite", zap.String("object_number", code), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error"})
			return
		}
		c.JSON(http.StatusOK, art)
	})

	rg.DELETE("/:code", func(c *gin.Context) {
		if err := selection.Remove(c.Param("code")); err != nil {
			log.Error("Failed to remove favorite", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "removed"})
	})

	rg.POST("/:code/compare", func(c *gin.Context) {
		var req struct {
			Candidate *bool `json:"candidate" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'candidate' field is required."})
			return
		}
		if err := selection.SetCompare(c.Param("code"), *req.Candidate); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "updated"})
	})

	rg.GET("/compare", func(c *gin.Context) {
		items, err := selection.CompareList()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	})
}

func setupNoteRoutes(router *gin.Engine, selection *storage.SelectionStore, log *zap.Logger) {
	rg := router.Group("/notes")

	rg.GET("/", func(c *gin.Context) {
		notes, err := selection.Notes()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error"})
			return
		}
		c.JSON(http.StatusOK, notes)
	})

	rg.GET("/:code", func(c *gin.Context) {
		text, ok, err := selection.Note(c.Param("code"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no note for this object"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"object_number": c.Param("code"), "note": text})
	})

	rg.PUT("/:code", func(c *gin.Context) {
		var req struct {
			Note string `json:"note"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := selection.SetNote(c.Param("code"), req.Note); err != nil {
			log.Error("Failed to save note", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "saved"})
	})

	rg.DELETE("/:code", func(c *gin.Context) {
		if err := selection.DeleteNote(c.Param("code")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "removed"})
	})

	// PDF-Einstellungen hängen logisch an den Notizen/Exporten.
	router.GET("/pdf-settings", func(c *gin.Context) {
		settings, err := selection.PDFSettings()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error"})
			return
		}
		c.JSON(http.StatusOK, settings)
	})
	router.PUT("/pdf-settings", func(c *gin.Context) {
		var settings models.PDFSettings
		if err := c.ShouldBindJSON(&settings); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := selection.SetPDFSettings(settings); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error"})
			return
		}
		c.JSON(http.StatusOK, settings)
	})
}

func setupExportRoutes(router *gin.Engine, selection *storage.SelectionStore, eventLog *storage.EventLog, log *zap.Logger) {
	rg := router.Group("/exports")
	var exporter services.Exporter

	loadSelection := func(c *gin.Context) ([]models.Artwork, map[string]string, bool) {
		items, err := selection.List()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error"})
			return nil, nil, false
		}
		notes, err := selection.Notes()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error"})
			return nil, nil, false
		}
		return items, notes, true
	}

	rg.GET("/selection.csv", func(c *gin.Context) {
		items, notes, ok := loadSelection(c)
		if !ok {
			return
		}
		data, err := exporter.SelectionCSV(items, notes)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		eventLog.Append("export", "selection", map[string]any{"format": "csv"})
		c.Header("Content-Disposition", `attachment; filename="selection.csv"`)
		c.Data(http.StatusOK, "text/csv", data)
	})

	rg.GET("/selection.json", func(c *gin.Context) {
		items, notes, ok := loadSelection(c)
		if !ok {
			return
		}
		data, err := exporter.SelectionJSON(items, notes)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		eventLog.Append("export", "selection", map[string]any{"format": "json"})
		c.Header("Content-Disposition", `attachment; filename="selection.json"`)
		c.Data(http.StatusOK, "application/json", data)
	})

	rg.GET("/selection.pdf", func(c *gin.Context) {
		items, notes, ok := loadSelection(c)
		if !ok {
			return
		}
		settings, err := selection.PDFSettings()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error"})
			return
		}
		data, err := services.PDFBuilder{Settings: settings}.Build(items, notes)
		if err != nil {
			log.Error("PDF export failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		eventLog.Append("export", "selection", map[string]any{"format": "pdf"})
		c.Header("Content-Disposition", `attachment; filename="selection.pdf"`)
		c.Data(http.StatusOK, "application/pdf", data)
	})

	rg.GET("/notes.csv", func(c *gin.Context) {
		items, notes, ok := loadSelection(c)
		if !ok {
			return
		}
		data, err := exporter.NotesCSV(items, notes)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		eventLog.Append("export", "notes", map[string]any{"format": "csv"})
		c.Header("Content-Disposition", `attachment; filename="notes.csv"`)
		c.Data(http.StatusOK, "text/csv", data)
	})

	rg.GET("/notes.json", func(c *gin.Context) {
		_, notes, ok := loadSelection(c)
		if !ok {
			return
		}
		data, err := exporter.NotesJSON(notes)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		eventLog.Append("export", "notes", map[string]any{"format": "json"})
		c.Header("Content-Disposition", `attachment; filename="notes.json"`)
		c.Data(http.StatusOK, "application/json", data)
	})

	rg.GET("/share-code", func(c *gin.Context) {
		items, notes, ok := loadSelection(c)
		if !ok {
			return
		}
		code, err := exporter.ShareCode(items, notes)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		eventLog.Append("export", "selection", map[string]any{"format": "share_code"})
		c.JSON(http.StatusOK, gin.H{"share_code": code, "count": len(items)})
	})

	// Teilen-Code wieder einlesen (Import auf einem anderen Gerät).
	rg.POST("/share-code", func(c *gin.Context) {
		var req struct {
			ShareCode string `json:"share_code" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'share_code' field is required."})
			return
		}
		items, err := exporter.DecodeShareCode(req.ShareCode)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	})
}

func setupAnalyticsRoutes(router *gin.Engine, eventLog *storage.EventLog, selection *storage.SelectionStore, cache *storage.RecordCache, cfg *config.Config, log *zap.Logger) {
	router.POST("/events", func(c *gin.Context) {
		var req struct {
			Event string         `json:"event" binding:"required"`
			Page  string         `json:"page"`
			Props map[string]any `json:"props"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'event' field is required."})
			return
		}
		e := eventLog.Append(req.Event, req.Page, req.Props)
		c.JSON(http.StatusAccepted, gin.H{"id": e.ID})
	})

	router.GET("/stats", func(c *gin.Context) {
		if cfg.StatsPassword != "" && c.Query("password") != cfg.StatsPassword {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid stats password"})
			return
		}
		events, err := eventLog.ReadAll()
		if err != nil {
			log.Error("Failed to read event log", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error"})
			return
		}
		stats := services.AggregateStats(events)

		items, _ := selection.List()
		c.JSON(http.StatusOK, gin.H{
			"stats":          stats,
			"selection_size": len(items),
			"cached_records": cache.Count(),
		})
	})
}

// intQuery liest einen optionalen Integer-Query-Parameter mit Default.
func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
