package handler

import (
	"errors"
	"fmt"
	"net/http"

	"squarepad/internal/core/domain"
	"squarepad/internal/core/feed"
	"squarepad/internal/core/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	cacheControlImmutable = "public, max-age=604800, immutable"
	feedContentType       = "application/xml; charset=utf-8"
	maxImageIndex         = 50
)

// API exposes the three square endpoints over HTTP.
type API struct {
	cfg      domain.Config
	squares  *service.Square
	products *service.Product
	feeds    *service.Feed
}

func NewAPI(cfg domain.Config, squares *service.Square, products *service.Product, feeds *service.Feed) *API {
	return &API{cfg: cfg, squares: squares, products: products, feeds: feeds}
}

// FromImageURL renders a square rendition of the image at the img parameter.
func (a *API) FromImageURL(c *gin.Context) {
	sourceURL := c.Query("img")
	if sourceURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_img"})
		return
	}

	rendered, err := a.squares.Render(c.Request.Context(), sourceURL, a.renderSpec(c))
	if err != nil {
		respondError(c, err)
		return
	}

	writeImage(c, rendered)
}

// FromProductID resolves a catalog product's image and renders it square.
func (a *API) FromProductID(c *gin.Context) {
	claims, err := domain.ParseBearer(c.GetHeader("Authorization"))
	if err != nil {
		respondError(c, err)
		return
	}

	productID := c.Query("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_productId"})
		return
	}

	index := domain.Clamp(c.Query("index"), 0, maxImageIndex, 0)

	sourceURL, err := a.products.Resolve(c.Request.Context(), claims, productID, index)
	if err != nil {
		respondError(c, err)
		return
	}

	rendered, err := a.squares.Render(c.Request.Context(), sourceURL, a.renderSpec(c))
	if err != nil {
		respondError(c, err)
		return
	}

	writeImage(c, rendered)
}

// FromXMLURL fetches a feed document and rewrites its image links.
func (a *API) FromXMLURL(c *gin.Context) {
	sourceURL := c.Query("source")
	if sourceURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_source"})
		return
	}

	params := feed.PassThrough{
		Size:       c.Query("size"),
		Background: c.Query("bg"),
		Align:      c.Query("align"),
		Format:     c.Query("format"),
	}

	rewritten, err := a.feeds.Transform(c.Request.Context(), sourceURL, a.origin(c), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, feedContentType, []byte(rewritten))
}

func (a *API) renderSpec(c *gin.Context) domain.RenderSpec {
	return domain.RenderSpec{
		Size:       domain.Clamp(c.Query("size"), domain.MinSize, a.cfg.MaxSize, a.cfg.DefaultSize),
		Background: domain.ParseBackground(c.Query("bg")),
		Alignment:  domain.ParseAlignment(c.Query("align")),
		Format:     domain.NegotiateFormat(c.Query("format"), c.GetHeader("Accept")),
	}
}

// origin is the base URL rewritten feed links point at: the configured
// public URL when set, otherwise derived from the incoming request.
func (a *API) origin(c *gin.Context) string {
	if a.cfg.PublicURL != "" {
		return a.cfg.PublicURL
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

// writeImage sends the rendered bytes with cache validators, or a bare 304
// when the client already holds the current rendition.
func writeImage(c *gin.Context, img *domain.RenderedImage) {
	if c.GetHeader("If-None-Match") == img.ETag {
		c.Status(http.StatusNotModified)
		return
	}

	c.Header("Cache-Control", cacheControlImmutable)
	c.Header("ETag", img.ETag)
	c.Header("Last-Modified", img.LastModified)
	c.Data(http.StatusOK, img.MIME, img.Bytes)
}

// respondError maps the error taxonomy to HTTP statuses and short machine
// codes. Nothing beyond these codes crosses the boundary.
func respondError(c *gin.Context, err error) {
	var statusErr *domain.StatusError

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, domain.ErrTokenNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "token_not_found"})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
	case errors.Is(err, domain.ErrNoImages):
		c.JSON(http.StatusNotFound, gin.H{"error": "no_images"})
	case errors.Is(err, domain.ErrResolverUnavailable):
		c.JSON(http.StatusNotImplemented, gin.H{"error": "image_url_resolver_missing"})
	case errors.Is(err, domain.ErrSourceUnreachable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "source_unavailable"})
	case errors.Is(err, domain.ErrFetchTimeout):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch_timeout"})
	case errors.Is(err, domain.ErrPayloadTooLarge):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "too_big"})
	case errors.Is(err, domain.ErrDecode):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "decode_failed"})
	case errors.As(err, &statusErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      fmt.Sprintf("fetch_%d", statusErr.Code),
			"statusCode": statusErr.Code,
		})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
