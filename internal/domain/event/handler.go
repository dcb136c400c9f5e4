package event

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/carepool/carepool/pkg/pagination"
)

// Handler exposes the event journal to indexers and UIs. Read-only: the
// only writer is the ledger's recorder.
type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/events", h.ListEvents)
}

func (h *Handler) ListEvents(c echo.Context) error {
	pg := pagination.FromContext(c)

	filter := Filter{
		Type:      c.QueryParam("type"),
		Principal: c.QueryParam("principal"),
	}
	if v := c.QueryParam("pool_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid pool_id")
		}
		filter.PoolID = id
	}
	if v := c.QueryParam("claim_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid claim_id")
		}
		filter.ClaimID = id
	}

	events, total, err := h.repo.List(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(events, total, pg.Limit, pg.Offset))
}
