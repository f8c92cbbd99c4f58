package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	appErrors "github.com/campus-timetable/scheduler/pkg/errors"
	"github.com/campus-timetable/scheduler/pkg/response"
)

// SerializeSolves rejects a request with 409 Conflict if another solve is
// already in flight, rather than letting two solves race the same catalog.
// The core contract only requires callers to serialize solves (§5); this is
// the HTTP gateway's enforcement of that requirement.
func SerializeSolves() gin.HandlerFunc {
	var mu sync.Mutex
	var inFlight bool

	return func(c *gin.Context) {
		mu.Lock()
		if inFlight {
			mu.Unlock()
			response.Error(c, appErrors.Wrap(nil, appErrors.ErrConflict.Code, http.StatusConflict, "a timetable solve is already in progress"))
			c.Abort()
			return
		}
		inFlight = true
		mu.Unlock()

		defer func() {
			mu.Lock()
			inFlight = false
			mu.Unlock()
		}()

		c.Next()
	}
}
