package main

import (
	"flag"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/narvaro/internal/app"
	"github.com/shrimpsizemoose/narvaro/internal/handlers"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	attendanceHandler := handlers.NewAttendanceHandler(service)
	sessionHandler := handlers.NewSessionHandler(service)

	http.HandleFunc("POST /api/v1/attendance/{session_id}/mark", attendanceHandler.HandleMark)

	http.HandleFunc("POST /api/v1/sessions", sessionHandler.HandleCreate)
	http.HandleFunc("GET /api/v1/sessions", sessionHandler.HandleList)
	http.HandleFunc("GET /api/v1/sessions/{id}", sessionHandler.HandleGet)
	http.HandleFunc("PUT /api/v1/sessions/{id}", sessionHandler.HandleUpdate)
	http.HandleFunc("PATCH /api/v1/sessions/{id}", sessionHandler.HandleToggle)
	http.HandleFunc("DELETE /api/v1/sessions/{id}", sessionHandler.HandleDelete)
	http.HandleFunc("GET /api/v1/sessions/{id}/qr", sessionHandler.HandleQR)
	http.HandleFunc("GET /api/v1/sessions/{id}/report", sessionHandler.HandleReport)

	http.HandleFunc("GET /attendance/{session_id}", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "static/attendance.html")
	})
	http.HandleFunc("GET /admin", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "static/index.html")
	})

	http.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting narvaro server on %s", service.Config.Server.Port)
	logger.Debug.Println("Requiring headers:")
	for _, h := range service.Config.API.RequiredHeaders {
		logger.Debug.Printf("  %s: %s", h.Name, h.Value)
	}
	if err := http.ListenAndServe(service.Config.Server.Port, nil); err != nil {
		logger.Error.Fatalf("Narvaro server failed: %v", err)
	}
}
