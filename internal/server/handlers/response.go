package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/perfdash/internal/domain/models"
	"github.com/mamadbah2/perfdash/internal/parse"
	"github.com/mamadbah2/perfdash/internal/service/aggregate"
)

// Response is the JSON envelope every API endpoint answers with.
type Response struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

var errInvalidQuery = errors.New("invalid query parameter")

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data, Timestamp: time.Now().UTC()})
}

func respondError(c *gin.Context, status int, message string, err error) {
	resp := Response{Success: false, Error: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(status, resp)
}

// filterFromQuery reads from, to, network, media_buyer and offer.
func filterFromQuery(c *gin.Context) (aggregate.Filter, error) {
	var f aggregate.Filter
	var err error
	if f.From, err = dateParam(c, "from"); err != nil {
		return f, err
	}
	if f.To, err = dateParam(c, "to"); err != nil {
		return f, err
	}
	f.Networks = listParam(c, "network")
	f.MediaBuyers = listParam(c, "media_buyer")
	f.Offers = listParam(c, "offer")
	return f, nil
}

func dateParam(c *gin.Context, key string) (d models.Date, err error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return d, nil
	}
	if d, err = parse.Date(raw); err != nil {
		return d, fmt.Errorf("%w %s: %w", errInvalidQuery, key, err)
	}
	return d, nil
}

// listParam accepts both repeated keys and comma separated values.
func listParam(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func statusFor(err error) int {
	if errors.Is(err, errInvalidQuery) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
