package respond

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParamID reads a positive integer path parameter, writing a 400 when it is not one.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		Error(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
