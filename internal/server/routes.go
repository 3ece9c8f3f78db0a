package server

import (
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/The-Coder-x/TypeWar/internal/config"
	"github.com/The-Coder-x/TypeWar/internal/db"
	"github.com/The-Coder-x/TypeWar/internal/game"
	"github.com/The-Coder-x/TypeWar/internal/metrics"
	"github.com/The-Coder-x/TypeWar/internal/texts"
)

// Run builds the server from cfg and serves until the listener fails.
func Run(cfg config.Config) error {
	srv := newServer(cfg)
	catalog := texts.NewCatalog(time.Now().UnixNano())
	srv.Engine = game.NewEngine(catalog, cfg.RaceDuration, srv)

	// Optional database connection
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect: %v (running without database)\n", err)
		} else {
			if err := database.Migrate(); err != nil {
				log.Printf("[DB] Migration failed: %v\n", err)
			}
			srv.DB = database
			srv.ProgressBuffer = make(chan db.ProgressEvent, 1000)
			go progressBatchWriter(database, srv.ProgressBuffer)
			log.Println("[DB] Database connected and migrations applied")
		}
	} else {
		log.Println("[DB] Database URL not set, running without database")
	}

	router := httprouter.New()
	router.GET("/ws", srv.handleWS)
	router.GET("/healthz", srv.handleHealth)
	router.GET("/rooms/:code/qr", srv.handleRoomQR)
	router.Handler(http.MethodGet, "/metrics", metrics.Handler())

	log.Printf("[Server] Listening on %s\n", cfg.Addr())
	return http.ListenAndServe(cfg.Addr(), router)
}

// progressBatchWriter drains the progress buffer into the mirror in
// batches so race traffic never waits on the database.
func progressBatchWriter(database *db.DB, buffer chan db.ProgressEvent) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	batch := make([]db.ProgressEvent, 0, 50)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := database.BatchRecordProgress(batch); err != nil {
			log.Printf("[DB] BatchRecordProgress error: %v\n", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case ev := <-buffer:
			batch = append(batch, ev)
			if len(batch) >= 50 {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
