// Package http implements the HTTP request handlers for the analytics
// API. It provides a thin layer between HTTP transport and business
// logic: handlers parse and validate requests, delegate to services,
// and translate service errors into RFC 7807 problem details.
//
// # Request Flow
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → DatasetService
//	                                              ↓
//	HTTP Response ← Handler ← filtered aggregate ←┘
//
// # Handler Structure
//
// Each handler follows this pattern:
//
//	func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
//	    // 1. Bind and validate the filter from query parameters
//	    f, err := h.bindFilter(r)
//	    if err != nil {
//	        h.errorHandler.HandleError(w, r, err)
//	        return
//	    }
//
//	    // 2. Call the service layer
//	    summary, err := h.service.Summary(r.Context(), f)
//	    if err != nil {
//	        h.errorHandler.HandleError(w, r, h.mapServiceError(err))
//	        return
//	    }
//
//	    // 3. Format and send the response envelope
//	    render.JSON(w, r, map[string]interface{}{
//	        "status": "success",
//	        "data":   summary,
//	    })
//	}
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/insufficient-data",
//	    "title": "Unprocessable Entity",
//	    "status": 422,
//	    "detail": "insufficient data for regression (1 rows): need at least 2 training rows",
//	    "instance": "/api/analytics/regression"
//	}
//
// # Testing
//
// Handlers are tested with httptest against both the real dataset
// service over fixture data and stub services for error paths.
package http
