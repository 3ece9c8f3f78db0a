package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/json")
	status := "ok"
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			status = "db_error"
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"%s","error":"%s"}`, status, err.Error())
			return
		}
	}
	fmt.Fprintf(w, `{"status":"%s"}`, status)
}

// handleRoomQR serves a QR code encoding the join URL for a live
// room, for sharing a room across the table.
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	code := strings.ToUpper(strings.TrimSpace(params.ByName("code")))
	if _, err := s.Rooms.Find(code); err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	joinURL := strings.TrimRight(s.Cfg.PublicURL, "/") + "/?join=" + code
	png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "failed to render qr code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
