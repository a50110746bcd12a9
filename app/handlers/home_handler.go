package handlers

import (
	"net/http"

	"github.com/Rakhulsr/afronectar/app/helpers"
	"github.com/unrolled/render"
)

type HomeHandler struct {
	render *render.Render
}

func NewHomeHandler(r *render.Render) *HomeHandler {
	return &HomeHandler{render: r}
}

// Home shows which address the request came from and, behind a proxy, which
// client it was forwarded for.
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	_ = h.render.HTML(w, http.StatusOK, "home", map[string]interface{}{
		"title":             "Afronectar",
		"forwarded_from_ip": helpers.RemoteIP(r),
		"forwarded_for_ip":  helpers.ForwardedForIP(r),
	})
}
