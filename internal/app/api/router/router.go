package router

import (
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voteagora/near-merkle-claim/internal/domain/campaign"
	"github.com/voteagora/near-merkle-claim/internal/merkle"
	"github.com/voteagora/near-merkle-claim/internal/observability/metrics"
)

// Dependencies enumerates services required by API handlers.
type Dependencies struct {
	CampaignService *campaign.Service
}

// New builds a gin.Engine with all routes registered.
func New(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), metrics.GinMiddleware())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h := &handler{svc: deps.CampaignService}

	router.POST("/initialize", h.initialize)
	router.GET("/config", h.getConfig)
	router.POST("/campaign", h.createCampaign)
	router.GET("/campaign/:id", h.getCampaign)
	router.POST("/campaign/:id/claim", h.claim)
	router.POST("/campaign/:id/withdraw", h.withdraw)

	return router
}

type handler struct {
	svc *campaign.Service
}

type initializeRequest struct {
	OwnerIdentity     string `json:"owner_identity" binding:"required"`
	MinStorageReserve uint64 `json:"min_storage_reserve"`
}

type createCampaignRequest struct {
	Caller     string    `json:"caller" binding:"required"`
	MerkleRoot string    `json:"merkle_root" binding:"required"`
	ClaimEnd   time.Time `json:"claim_end" binding:"required"`
	Funding    uint64    `json:"funding" binding:"required"`
}

type createCampaignResponse struct {
	ID int64 `json:"id"`
}

type proofStep struct {
	Hash string `json:"hash" binding:"required"`
	Side string `json:"side" binding:"required"`
}

type claimRequest struct {
	Identity string      `json:"identity" binding:"required"`
	Amount   uint64      `json:"amount" binding:"required"`
	Proof    []proofStep `json:"proof"`
}

type withdrawRequest struct {
	Caller string `json:"caller" binding:"required"`
}

func (h *handler) initialize(c *gin.Context) {
	var req initializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.Initialize(c.Request.Context(), req.OwnerIdentity, req.MinStorageReserve); err != nil {
		if errors.Is(err, campaign.ErrAlreadyInitialized) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"owner_identity": req.OwnerIdentity})
}

func (h *handler) getConfig(c *gin.Context) {
	cfg, err := h.svc.Config(c.Request.Context())
	if err != nil {
		if errors.Is(err, campaign.ErrNotInitialized) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"owner_identity":      cfg.Owner,
		"min_storage_reserve": cfg.MinStorageReserve,
	})
}

func (h *handler) createCampaign(c *gin.Context) {
	var req createCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	root, err := parseHash(req.MerkleRoot)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "merkle_root must be 32 bytes of hex"})
		return
	}
	id, err := h.svc.CreateCampaign(c.Request.Context(), campaign.CreateInput{
		Caller:     req.Caller,
		MerkleRoot: root,
		ClaimEnd:   req.ClaimEnd,
		Funding:    req.Funding,
	})
	if err != nil {
		switch {
		case errors.Is(err, campaign.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, campaign.ErrNotInitialized):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, createCampaignResponse{ID: id})
}

func (h *handler) getCampaign(c *gin.Context) {
	id, ok := campaignID(c)
	if !ok {
		return
	}
	cmp, err := h.svc.GetCampaign(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, campaign.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":             cmp.ID,
		"merkle_root":    hex.EncodeToString(cmp.MerkleRoot[:]),
		"claim_end":      cmp.ClaimEnd,
		"funded_balance": cmp.Funded,
		"created_at":     cmp.CreatedAt,
	})
}

func (h *handler) claim(c *gin.Context) {
	id, ok := campaignID(c)
	if !ok {
		return
	}
	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	proof := make([]merkle.ProofStep, 0, len(req.Proof))
	for _, step := range req.Proof {
		hash, err := parseHash(step.Hash)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "proof hashes must be 32 bytes of hex"})
			return
		}
		// Unknown side markers flow through to the verifier, which
		// treats them as plain verification failure.
		proof = append(proof, merkle.ProofStep{Hash: hash, Side: merkle.ParseSide(step.Side)})
	}
	result, err := h.svc.Claim(c.Request.Context(), campaign.ClaimInput{
		CampaignID: id,
		Identity:   req.Identity,
		Amount:     req.Amount,
		Proof:      proof,
	})
	if err != nil {
		switch {
		case errors.Is(err, campaign.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, campaign.ErrClaimWindowClosed):
			c.JSON(http.StatusGone, gin.H{"error": err.Error()})
		case errors.Is(err, campaign.ErrAlreadyClaimed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, campaign.ErrInvalidProof):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, campaign.ErrInsufficientFunds):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"amount": result.Amount, "remaining": result.Remaining})
}

func (h *handler) withdraw(c *gin.Context) {
	id, ok := campaignID(c)
	if !ok {
		return
	}
	var req withdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := h.svc.WithdrawRemaining(c.Request.Context(), req.Caller, id)
	if err != nil {
		switch {
		case errors.Is(err, campaign.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, campaign.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, campaign.ErrWithdrawTooEarly):
			c.JSON(http.StatusTooEarly, gin.H{"error": err.Error()})
		case errors.Is(err, campaign.ErrNothingToWithdraw):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, campaign.ErrNotInitialized):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"amount": amount})
}

func campaignID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid campaign id"})
		return 0, false
	}
	return id, true
}

func parseHash(s string) (merkle.Hash, error) {
	s = strings.TrimPrefix(s, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return merkle.Hash{}, err
	}
	if len(raw) != merkle.HashSize {
		return merkle.Hash{}, errors.New("hash must be 32 bytes")
	}
	var h merkle.Hash
	copy(h[:], raw)
	return h, nil
}
