package httpx

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Page — окно списка из query-параметров limit/offset.
type Page struct {
	Limit  int
	Offset int
}

// ParsePage — limit в [1, maxLimit] (по умолчанию defaultLimit), offset >= 0.
// Некорректные значения заменяются умолчаниями.
func ParsePage(c *gin.Context, defaultLimit, maxLimit int) Page {
	p := Page{Limit: clamp(defaultLimit, 1, maxLimit)}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		p.Limit = clamp(v, 1, maxLimit)
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		p.Offset = v
	}
	return p
}

// Bounds — полуинтервал [lo, hi) окна для списка длины n.
func (p Page) Bounds(n int) (lo, hi int) {
	lo = clamp(p.Offset, 0, n)
	hi = clamp(lo+p.Limit, lo, n)
	return lo, hi
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
