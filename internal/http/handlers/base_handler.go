// README: Base handler utilities (JSON helpers, coordinate validation).
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func validCoords(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// queryCoords parses and range-checks lat/lng query params.
func queryCoords(c *gin.Context) (lat, lng float64, ok bool) {
	var err error
	lat, err = strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err = strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		return 0, 0, false
	}
	if !validCoords(lat, lng) {
		return 0, 0, false
	}
	return lat, lng, true
}
