package menu

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"serveur/internal/core"
)

type HandlerConfig struct {
	BaseURL     string
	FrontendURL string
	Debug       bool
}

type Handler struct {
	service *Service
	cfg     HandlerConfig
	log     *zap.SugaredLogger
}

func NewHandler(service *Service, cfg HandlerConfig, log *zap.SugaredLogger) *Handler {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return &Handler{service: service, cfg: cfg, log: log}
}

// --------------------------------------------------
// Restaurant uploads a menu PDF
// --------------------------------------------------
func (h *Handler) Create(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("restaurant_name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "restaurant_name is required"})
		return
	}

	file, header, err := c.Request.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pdf file is required"})
		return
	}
	defer file.Close()

	limit := h.service.cfg.Limits.MaxBytes
	reader := io.Reader(file)
	if limit > 0 {
		reader = io.LimitReader(file, limit+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read pdf file"})
		return
	}

	result, err := h.service.CreateMenu(c.Request.Context(), CreateInput{
		RestaurantName: name,
		Languages:      []string{c.PostForm("languages")},
		Filename:       header.Filename,
		ContentType:    header.Header.Get("Content-Type"),
		PDF:            data,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidUpload) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.fail(c, http.StatusInternalServerError, "menu creation failed", err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// --------------------------------------------------
// Public menu in the requested language
// --------------------------------------------------
func (h *Handler) GetPublic(c *gin.Context) {
	view, err := h.service.PublicView(c.Request.Context(), c.Param("slug"), c.Query("lang"))
	if err != nil {
		if errors.Is(err, core.ErrMenuNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "menu not found"})
			return
		}
		h.fail(c, http.StatusInternalServerError, "could not load menu", err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// RedirectPublic sends QR scans to the frontend page of the menu.
func (h *Handler) RedirectPublic(c *gin.Context) {
	slug := c.Param("slug")
	if _, err := h.service.FindBySlug(c.Request.Context(), slug); err != nil {
		if errors.Is(err, core.ErrMenuNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "menu not found"})
			return
		}
		h.fail(c, http.StatusInternalServerError, "could not load menu", err)
		return
	}

	c.Redirect(http.StatusFound, h.cfg.FrontendURL+"/menu/"+slug)
}

// --------------------------------------------------
// SEO
// --------------------------------------------------
func (h *Handler) Robots(c *gin.Context) {
	body := fmt.Sprintf("User-agent: *\nAllow: /menu/\nDisallow: /api/\nSitemap: %s/sitemap.xml\n", h.cfg.BaseURL)
	c.String(http.StatusOK, body)
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

func (h *Handler) Sitemap(c *gin.Context) {
	entries, err := h.service.Sitemap(c.Request.Context())
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "could not build sitemap", err)
		return
	}

	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, e := range entries {
		u := sitemapURL{Loc: h.service.PublicURL(e.Slug)}
		if !e.UpdatedAt.IsZero() {
			u.LastMod = e.UpdatedAt.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}

	c.XML(http.StatusOK, set)
}

func (h *Handler) fail(c *gin.Context, status int, msg string, err error) {
	h.log.Errorw(msg, "path", c.FullPath(), "error", err)

	body := gin.H{"error": msg}
	if h.cfg.Debug {
		body["detail"] = err.Error()
	}
	c.JSON(status, body)
}
