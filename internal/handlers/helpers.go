package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// tolerant of int / int64 / float64 / string context values
func getIntFromCtx(c *gin.Context, key string) (int, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n, true
		}
	}
	return 0, false
}

func currentUserID(c *gin.Context) int {
	id, _ := getIntFromCtx(c, "user_id")
	return id
}

func pathID(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
