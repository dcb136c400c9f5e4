package ledger

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/carepool/carepool/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/members", h.RegisterMember)
	api.GET("/members/:principal", h.GetMember)
	api.GET("/members/:principal/pools", h.GetMemberPools)
	api.GET("/members/:principal/claims", h.GetMemberClaims)

	api.POST("/providers", h.RegisterProvider)
	api.GET("/providers/:principal", h.GetProvider)
	api.GET("/providers/:principal/claims", h.GetProviderClaims)
	api.POST("/providers/:principal/verify", h.VerifyProvider)
	api.POST("/providers/:principal/suspend", h.SuspendProvider)
	api.PUT("/providers/:principal/reputation", h.UpdateProviderReputation)

	api.POST("/pools", h.CreatePool)
	api.GET("/pools/:id", h.GetPool)
	api.GET("/pools/:id/members", h.GetPoolMembers)
	api.GET("/pools/:id/claims", h.GetPoolClaims)
	api.POST("/pools/:id/join", h.JoinPool)
	api.POST("/pools/:id/contribute", h.ContributeToPool)
	api.POST("/pools/:id/exit", h.ExitPool)
	api.PUT("/pools/:id/status", h.UpdatePoolStatus)

	api.POST("/claims", h.SubmitClaim)
	api.GET("/claims/:id", h.GetClaim)
	api.POST("/claims/:id/approve", h.ApproveClaim)
	api.POST("/claims/:id/reject", h.RejectClaim)
	api.POST("/claims/:id/pay", h.PayClaim)

	api.PUT("/platform/fee", h.UpdatePlatformFee)
	api.POST("/platform/emergency-fund/withdraw", h.WithdrawEmergencyFund)
	api.POST("/platform/emergency-fund/replenish", h.ReplenishEmergencyFund)
	api.GET("/stats", h.GetStats)
}

// httpError translates ledger sentinels into HTTP status codes: missing
// entities 404, authorization 403, validation 400, state conflicts 409.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotOwner), errors.Is(err, ErrNotPoolAdmin):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrEmptyField),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrContributionTooLow),
		errors.Is(err, ErrFeeTooHigh),
		errors.Is(err, ErrInvalidReputation),
		errors.Is(err, ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
}

func caller(c echo.Context) Principal {
	return Principal(auth.PrincipalFrom(c))
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// -- Registry --

func (h *Handler) RegisterMember(c echo.Context) error {
	var req struct {
		Name    string `json:"name"`
		Contact string `json:"contact"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m, err := h.svc.RegisterMember(c.Request().Context(), caller(c), req.Name, req.Contact)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) RegisterProvider(c echo.Context) error {
	var req struct {
		Name      string `json:"name"`
		License   string `json:"license"`
		Specialty string `json:"specialty"`
		Location  string `json:"location"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.RegisterProvider(c.Request().Context(), caller(c), req.Name, req.License, req.Specialty, req.Location)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) VerifyProvider(c echo.Context) error {
	if err := h.svc.VerifyProvider(c.Request().Context(), caller(c), Principal(c.Param("principal"))); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SuspendProvider(c echo.Context) error {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SuspendProvider(c.Request().Context(), caller(c), Principal(c.Param("principal")), req.Reason); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpdateProviderReputation(c echo.Context) error {
	var req struct {
		Reputation int64 `json:"reputation"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.UpdateProviderReputation(c.Request().Context(), caller(c), Principal(c.Param("principal")), req.Reputation); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Pools --

func (h *Handler) CreatePool(c echo.Context) error {
	var req struct {
		Name            string `json:"name"`
		Description     string `json:"description"`
		MinContribution int64  `json:"min_contribution"`
		MaxClaimAmount  int64  `json:"max_claim_amount"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.CreatePool(c.Request().Context(), caller(c), req.Name, req.Description, req.MinContribution, req.MaxClaimAmount)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) JoinPool(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.JoinPool(c.Request().Context(), caller(c), id, req.Amount); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ContributeToPool(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.ContributeToPool(c.Request().Context(), caller(c), id, req.Amount); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ExitPool(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.ExitPool(c.Request().Context(), caller(c), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpdatePoolStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req struct {
		Status PoolStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.UpdatePoolStatus(c.Request().Context(), caller(c), id, req.Status); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Claims --

func (h *Handler) SubmitClaim(c echo.Context) error {
	var req struct {
		PoolID          int64  `json:"pool_id"`
		Provider        string `json:"provider"`
		Diagnosis       string `json:"diagnosis"`
		Treatment       string `json:"treatment"`
		RequestedAmount int64  `json:"requested_amount"`
		MedicalProof    string `json:"medical_proof"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	claim, err := h.svc.SubmitClaim(c.Request().Context(), caller(c), req.PoolID, Principal(req.Provider), req.Diagnosis, req.Treatment, req.RequestedAmount, req.MedicalProof)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, claim)
}

func (h *Handler) ApproveClaim(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req struct {
		ApprovedAmount int64 `json:"approved_amount"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.ApproveClaim(c.Request().Context(), caller(c), id, req.ApprovedAmount); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RejectClaim(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.RejectClaim(c.Request().Context(), caller(c), id, req.Reason); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) PayClaim(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.PayClaim(c.Request().Context(), caller(c), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Platform --

func (h *Handler) UpdatePlatformFee(c echo.Context) error {
	var req struct {
		FeeBps int64 `json:"fee_bps"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.UpdatePlatformFee(c.Request().Context(), caller(c), req.FeeBps); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) WithdrawEmergencyFund(c echo.Context) error {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.WithdrawEmergencyFund(c.Request().Context(), caller(c), req.Amount); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ReplenishEmergencyFund(c echo.Context) error {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.ReplenishEmergencyFund(c.Request().Context(), caller(c), req.Amount); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Reads --

func (h *Handler) GetPool(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetPool(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) GetPoolMembers(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	members, err := h.svc.GetPoolMembers(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, members)
}

func (h *Handler) GetPoolClaims(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	claims, err := h.svc.GetPoolClaims(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, claims)
}

func (h *Handler) GetMember(c echo.Context) error {
	m, err := h.svc.GetMember(Principal(c.Param("principal")))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) GetMemberPools(c echo.Context) error {
	pools, err := h.svc.GetMemberPools(Principal(c.Param("principal")))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pools)
}

func (h *Handler) GetMemberClaims(c echo.Context) error {
	claims, err := h.svc.GetMemberClaims(Principal(c.Param("principal")))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, claims)
}

func (h *Handler) GetProvider(c echo.Context) error {
	p, err := h.svc.GetProvider(Principal(c.Param("principal")))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) GetProviderClaims(c echo.Context) error {
	claims, err := h.svc.GetProviderClaims(Principal(c.Param("principal")))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, claims)
}

func (h *Handler) GetClaim(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	claim, err := h.svc.GetClaim(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, claim)
}

func (h *Handler) GetStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Stats())
}
