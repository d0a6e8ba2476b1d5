package apiserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/siteledger/siteledger/pkg/model"
	"github.com/siteledger/siteledger/pkg/store"
	"github.com/siteledger/siteledger/pkg/version"
)

type handler struct {
	store *store.Store
}

func newHandler(s *store.Store) *handler {
	return &handler{
		store: s,
	}
}

func (h *handler) root(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, version.Get())
}

func (h *handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var input model.AccountRequest
	if err := decode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	acct, token, err := h.store.CreateAccount(input)
	if err != nil {
		handleStoreError(w, err)
		return
	}

	tier, err := h.store.GetTierForAccount(acct.ID)
	if err != nil {
		handleStoreError(w, err)
		return
	}

	writeSuccess(w, model.AccountResponse{
		ID:    acct.ID,
		Email: acct.Email,
		Name:  acct.Name,
		Tier:  tier.Name,
		Token: token,
	})
}

func (h *handler) getAccount(w http.ResponseWriter, r *http.Request) {
	accountID := accountIDFromContext(r.Context())

	acct, err := h.store.GetAccount(accountID)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	tier, err := h.store.GetTierForAccount(accountID)
	if err != nil {
		handleStoreError(w, err)
		return
	}

	writeSuccess(w, model.AccountResponse{
		ID:    acct.ID,
		Email: acct.Email,
		Name:  acct.Name,
		Tier:  tier.Name,
	})
}

func (h *handler) updateAccount(w http.ResponseWriter, r *http.Request) {
	var input model.AccountRequest
	if err := decode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	acct, err := h.store.UpdateAccount(accountIDFromContext(r.Context()), input)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, model.AccountResponse{ID: acct.ID, Email: acct.Email, Name: acct.Name})
}

func (h *handler) listTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.store.ListTiers()
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, tiers)
}

func (h *handler) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(accountIDFromContext(r.Context()))
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, stats)
}

func (h *handler) listWebsites(w http.ResponseWriter, r *http.Request) {
	accountID := accountIDFromContext(r.Context())

	if category := r.URL.Query().Get("category"); category != "" {
		sites, err := h.store.ListWebsitesByCategory(accountID, model.WebsiteCategory(category))
		if err != nil {
			handleStoreError(w, err)
			return
		}
		writeSuccess(w, sites)
		return
	}

	sites, err := h.store.ListWebsites(accountID)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, sites)
}

func (h *handler) createWebsite(w http.ResponseWriter, r *http.Request) {
	var input model.WebsiteRequest
	if err := decode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	site, err := h.store.AddWebsite(accountIDFromContext(r.Context()), input)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, site)
}

func (h *handler) getWebsite(w http.ResponseWriter, r *http.Request) {
	site, err := h.store.GetWebsiteByID(accountIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, site)
}

func (h *handler) updateWebsite(w http.ResponseWriter, r *http.Request) {
	var input model.WebsiteRequest
	if err := decode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	site, err := h.store.UpdateWebsite(accountIDFromContext(r.Context()), mux.Vars(r)["id"], input)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, site)
}

func (h *handler) deleteWebsite(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteWebsite(accountIDFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		handleStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
