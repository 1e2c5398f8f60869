package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Digest is the part of the digest service exposed over HTTP
type Digest interface {
	RunDigest(ctx context.Context) error
	GetMetrics() string
	Reports(ctx context.Context) ([]string, error)
}

// NewRouter wires the health, metrics, trigger and report endpoints
func NewRouter(digest Digest) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc("/metrics", metricsHandler(digest)).Methods(http.MethodGet)
	router.HandleFunc("/reports", reportsHandler(digest)).Methods(http.MethodGet)
	router.HandleFunc("/trigger", triggerHandler(digest)).Methods(http.MethodPost)

	return router
}

// New creates the HTTP server for the digest service
func New(port string, digest Digest) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      NewRouter(digest),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to write response: %v", err)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func metricsHandler(digest Digest) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(digest.GetMetrics()))
	}
}

func reportsHandler(digest Digest) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := digest.Reports(r.Context())
		if err != nil {
			logrus.Errorf("Failed to list reports: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if names == nil {
			names = []string{}
		}
		writeJSON(w, http.StatusOK, map[string][]string{"reports": names})
	}
}

func triggerHandler(digest Digest) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		go func() {
			if err := digest.RunDigest(context.Background()); err != nil {
				logrus.Errorf("Manual digest trigger failed: %v", err)
			}
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{"message": "Digest triggered successfully"})
	}
}
