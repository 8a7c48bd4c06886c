package handler

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ProxyHandler forwards {base}/api/* to the prediction backend, keeping the /api prefix
type ProxyHandler struct {
	proxy *httputil.ReverseProxy
}

// NewProxyHandler creates a reverse proxy to target
func NewProxyHandler(target string, logger zerolog.Logger) (*ProxyHandler, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy target: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid proxy target %q", target)
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(u)
			r.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error().Err(err).Str("path", r.URL.Path).Msg("Proxy request failed")
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"Backend unavailable"}`))
		},
	}

	return &ProxyHandler{proxy: proxy}, nil
}

// Forward handles ANY {base}/api/*path
func (h *ProxyHandler) Forward(c *gin.Context) {
	req := c.Request.Clone(c.Request.Context())
	req.URL.Path = "/api" + c.Param("path")
	req.URL.RawPath = ""
	h.proxy.ServeHTTP(c.Writer, req)
}
