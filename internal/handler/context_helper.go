package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
	"github.com/noah-isme/student-records-api/pkg/response"
)

// pathID parses the :id path parameter, writing a 400 response when it is not
// an unsigned integer.
func pathID(c *gin.Context) (uint64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "invalid id "+strconv.Quote(raw)))
		return 0, false
	}
	return id, true
}

// bindJSON decodes the request body into dest, writing a 400 response on
// malformed input.
func bindJSON(c *gin.Context, dest interface{}, entity string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "invalid "+entity+" payload"))
		return false
	}
	return true
}
