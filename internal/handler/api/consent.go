package api

import (
	"net/http"

	"github.com/biemme2/biemme2-site/internal/consent"
)

// ConsentResponse describes the visitor's decision.
type ConsentResponse struct {
	Recorded   bool            `json:"recorded"`
	ShowDialog bool            `json:"show_dialog"`
	Record     *consent.Record `json:"record,omitempty"`
	Categories map[string]bool `json:"categories"`
}

// GetConsent handles GET /api/consent. It only reads: changing consent
// goes through the CSRF-protected form endpoints.
func (h *Handler) GetConsent(w http.ResponseWriter, r *http.Request) {
	st := consent.NewStore(consent.NewCookieStorage(w, r, h.secureCookies), nil, h.logger).Read()

	resp := ConsentResponse{
		Recorded:   st.Recorded,
		ShowDialog: st.Unset(),
		Categories: make(map[string]bool, 3),
	}
	if st.Recorded {
		rec := st.Record
		resp.Record = &rec
	}
	for _, c := range []consent.Category{consent.CategoryTechnical, consent.CategoryAnalytics, consent.CategoryFunctional} {
		resp.Categories[string(c)] = st.Allows(c)
	}
	w.Header().Set("Cache-Control", "no-store")
	WriteSuccess(w, resp)
}
