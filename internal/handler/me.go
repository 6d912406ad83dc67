package handler

import (
	"net/http"

	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
)

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	h.successResponse(w, r, "ok", myInfo)
}
