package httpadapter

import (
	"net/http"
)

func (rt *Router) listInstructions(w http.ResponseWriter, _ *http.Request, _ string) {
	writeJSON(w, http.StatusOK, rt.instructions.List())
}

func (rt *Router) getInstruction(w http.ResponseWriter, r *http.Request, _ string) {
	item, err := rt.instructions.Get(r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
