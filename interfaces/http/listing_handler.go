package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"trending-videos/domain/dto"
	"trending-videos/domain/model"
	"trending-videos/infrastructure/logger"
	"trending-videos/interfaces/middleware"
	"trending-videos/usecase"
)

// IListingHandler defines the HTTP handlers serving cached listings
type IListingHandler interface {
	GetTrending(ctx *gin.Context)
	GetCategories(ctx *gin.Context)
	GetCategoryTrending(ctx *gin.Context)
	Search(ctx *gin.Context)
	Refresh(ctx *gin.Context)
}

// ListingHandler implements IListingHandler
type ListingHandler struct {
	listingUseCase usecase.IListingUseCase
	regionCode     string
}

func NewListingHandler(listingUseCase usecase.IListingUseCase, regionCode string) IListingHandler {
	return &ListingHandler{listingUseCase: listingUseCase, regionCode: regionCode}
}

// GetTrending handles GET /api/trending
func (h *ListingHandler) GetTrending(ctx *gin.Context) {
	listing, err := h.listingUseCase.GetTrending(ctx.Request.Context())
	if err != nil {
		respondError(ctx, "Failed to get trending videos", err)
		return
	}
	h.respondListing(ctx, listing)
}

// GetCategories handles GET /api/categories
func (h *ListingHandler) GetCategories(ctx *gin.Context) {
	categories, err := h.listingUseCase.Categories(ctx.Request.Context())
	if err != nil {
		respondError(ctx, "Failed to get categories", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.CategoryResponse{RegionCode: h.regionCode, Categories: categories})
}

// GetCategoryTrending handles GET /api/categories/:categoryId/trending
func (h *ListingHandler) GetCategoryTrending(ctx *gin.Context) {
	listing, err := h.listingUseCase.GetCategory(ctx.Request.Context(), ctx.Param("categoryId"))
	if err != nil {
		respondError(ctx, "Failed to get category videos", err)
		return
	}
	h.respondListing(ctx, listing)
}

// Search handles GET /api/search?q=
func (h *ListingHandler) Search(ctx *gin.Context) {
	session, ok := middleware.SearchSession(ctx)
	if !ok {
		respondError(ctx, "Failed to search videos", errors.New("no search session"))
		return
	}
	listing, err := h.listingUseCase.Search(ctx.Request.Context(), session, ctx.Query("q"))
	if err != nil {
		respondError(ctx, "Failed to search videos", err)
		return
	}
	h.respondListing(ctx, listing)
}

// Refresh handles POST /api/refresh?scope=&id=&q=
func (h *ListingHandler) Refresh(ctx *gin.Context) {
	req := dto.RefreshRequest{}
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid refresh request", Message: err.Error()})
		return
	}

	var key model.CacheKey
	switch model.CacheScope(req.Scope) {
	case model.ScopeTrending:
		key = model.TrendingKey()
	case model.ScopeCategory:
		key = model.CategoryKey(strings.TrimSpace(req.ID))
	case model.ScopeSearch:
		key = model.SearchKey(req.Query)
	}
	session, _ := middleware.SearchSession(ctx)
	if key.Scope == model.ScopeSearch && session == nil {
		respondError(ctx, "Failed to refresh listing", errors.New("no search session"))
		return
	}

	listing, err := h.listingUseCase.Refresh(ctx.Request.Context(), key, session)
	if err != nil {
		respondError(ctx, "Failed to refresh listing", err)
		return
	}
	h.respondListing(ctx, listing)
}

// respondListing writes the listing filtered by the country/category query params
func (h *ListingHandler) respondListing(ctx *gin.Context, listing *model.Listing) {
	filter := dto.ListingFilter{}
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid filter", Message: err.Error()})
		return
	}
	records := usecase.FilterListing(listing.Records, filter)
	ctx.JSON(http.StatusOK, dto.ListingResponse{
		Key:       listing.Key.String(),
		Records:   records,
		FetchedAt: listing.FetchedAt,
		IsStale:   listing.IsStale,
		Warning:   listing.Warning,
		Summary:   usecase.Summarize(records),
	})
}

func respondError(ctx *gin.Context, message string, err error) {
	status := statusFor(err)
	log := logger.GetLogger().WithFields(map[string]interface{}{
		"path":   ctx.FullPath(),
		"status": status,
		"error":  err,
	})
	if status >= http.StatusInternalServerError {
		log.Error(message)
	} else {
		log.Info(message)
	}
	ctx.JSON(status, dto.ErrorResponse{Error: message, Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrEmptyQuery), errors.Is(err, usecase.ErrEmptyCategoryID),
		errors.Is(err, usecase.ErrInvalidCategoryID):
		return http.StatusBadRequest
	case model.IsConfiguration(err):
		return http.StatusInternalServerError
	case errors.Is(err, model.ErrNoCachedData), model.IsTransport(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
