package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ErrorBody is the payload of every error response
type ErrorBody struct {
	Error string `json:"error"`
}

// Pagination describes a page of a listing
type Pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// JSON writes a JSON response
func JSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// Error writes an error response
func Error(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, ErrorBody{Error: message})
}

// Success writes a 200 response wrapping data
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}

// Created writes a 201 response wrapping data
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    data,
	})
}

// NoContent writes a no content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Paginated writes a page of data with its pagination details
func Paginated(w http.ResponseWriter, data any, total, limit, offset int) {
	JSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"data":       data,
		"pagination": Pagination{Total: total, Limit: limit, Offset: offset},
	})
}

// PublicCache marks the response as cacheable by shared caches for maxAge
func PublicCache(w http.ResponseWriter, maxAge time.Duration) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds())))
}

// NoStore forbids caching of the response
func NoStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
}
