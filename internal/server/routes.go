package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Ingestion and reindex triggers
	mux.HandleFunc("/load-faq/", s.app.IngestHandler.LoadFAQHandler)
	mux.HandleFunc("/reindex/", s.app.ReindexHandler.TriggerReindexHandler)

	// FAQ resource: collection at /fqas/, subresources and items beneath it
	mux.HandleFunc("/fqas/", s.handleFAQRoutes)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/status", s.app.APIHandler.StatusHandler)

	// Catch-all for unknown paths
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.app.APIHandler.NotFoundHandler(w, r)
	})

	return mux
}

// handleFAQRoutes dispatches /fqas/ requests: the bare collection routes by
// method, fixed subpaths go to search and export, and anything else is
// treated as an item ID.
func (s *Server) handleFAQRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/fqas/")

	switch rest {
	case "":
		RouteByMethod(w, r, MethodRouter{
			"GET":  s.app.FAQHandler.ListFAQsHandler,
			"POST": s.app.FAQHandler.CreateFAQHandler,
		})
	case "search":
		s.app.FAQHandler.SearchFAQsHandler(w, r)
	case "export":
		s.app.FAQHandler.ExportFAQsHandler(w, r)
	default:
		s.app.FAQHandler.GetFAQHandler(w, r)
	}
}
