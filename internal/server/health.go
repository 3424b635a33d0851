package server

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status        string   `json:"status"`
	Timestamp     string   `json:"timestamp"`
	UptimeSeconds int64    `json:"uptime_seconds"`
	DB            dbHealth `json:"db"`
}

type dbHealth struct {
	OK        bool      `json:"ok"`
	LatencyMS *int64    `json:"latency_ms"`
	Pool      poolStats `json:"pool"`
}

type poolStats struct {
	OpenConnections int   `json:"open_connections"`
	InUse           int   `json:"in_use"`
	Idle            int   `json:"idle"`
	WaitCount       int64 `json:"wait_count"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	h := s.db.Health(r.Context())

	resp := healthResponse{
		Status:        "ok",
		Timestamp:     now.UTC().Format(time.RFC3339Nano),
		UptimeSeconds: int64(now.Sub(s.startedAt) / time.Second),
		DB: dbHealth{
			OK: h.OK,
			Pool: poolStats{
				OpenConnections: h.Stats.OpenConnections,
				InUse:           h.Stats.InUse,
				Idle:            h.Stats.Idle,
				WaitCount:       h.Stats.WaitCount,
			},
		},
	}

	if !h.OK {
		resp.Status = "error"
		respondWithJSON(w, http.StatusInternalServerError, resp)
		return
	}

	latency := h.Latency.Milliseconds()
	resp.DB.LatencyMS = &latency
	respondWithJSON(w, http.StatusOK, resp)
}
