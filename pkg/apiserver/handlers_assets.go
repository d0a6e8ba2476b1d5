package apiserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/siteledger/siteledger/pkg/db"
	"github.com/siteledger/siteledger/pkg/model"
	"github.com/siteledger/siteledger/pkg/store"
)

func revealRequested(r *http.Request) bool {
	return r.URL.Query().Get("reveal") == "true"
}

func (h *handler) listCredentials(w http.ResponseWriter, r *http.Request) {
	creds, err := h.store.GetCredentialsByWebsiteID(accountIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if !revealRequested(r) {
		for i := range creds {
			creds[i] = store.MaskCredential(creds[i])
		}
	}
	writeSuccess(w, creds)
}

func (h *handler) createCredential(w http.ResponseWriter, r *http.Request) {
	var input model.CredentialRequest
	if err := decode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cred, err := h.store.AddCredential(accountIDFromContext(r.Context()), mux.Vars(r)["id"], input)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, store.MaskCredential(cred))
}

func (h *handler) getCredential(w http.ResponseWriter, r *http.Request) {
	cred, err := h.store.GetCredentialByID(accountIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if !revealRequested(r) {
		cred = store.MaskCredential(cred)
	}
	writeSuccess(w, cred)
}

func (h *handler) updateCredential(w http.ResponseWriter, r *http.Request) {
	var input model.CredentialRequest
	if err := decode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cred, err := h.store.UpdateCredential(accountIDFromContext(r.Context()), mux.Vars(r)["id"], input)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, store.MaskCredential(cred))
}

func (h *handler) deleteCredential(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteCredential(accountIDFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		handleStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type serpResponse struct {
	db.SERPEntry
	Trend int `json:"trend"`
}

func withTrend(entry db.SERPEntry) serpResponse {
	return serpResponse{
		SERPEntry: entry,
		Trend:     model.RankTrend(entry.PreviousRank, entry.CurrentRank),
	}
}

func (h *handler) listSERPEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.GetSERPEntriesByWebsiteID(accountIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		handleStoreError(w, err)
		return
	}
	out := make([]serpResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, withTrend(e))
	}
	writeSuccess(w, out)
}

func (h *handler) createSERPEntry(w http.ResponseWriter, r *http.Request) {
	var input model.SERPEntryRequest
	if err := decode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	entry, err := h.store.AddSERPEntry(accountIDFromContext(r.Context()), mux.Vars(r)["id"], input)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, withTrend(entry))
}

func (h *handler) getSERPEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.store.GetSERPEntryByID(accountIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, withTrend(entry))
}

func (h *handler) updateSERPEntry(w http.ResponseWriter, r *http.Request) {
	var input model.SERPEntryRequest
	if err := decode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	entry, err := h.store.UpdateSERPEntry(accountIDFromContext(r.Context()), mux.Vars(r)["id"], input)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, withTrend(entry))
}

func (h *handler) recordRank(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Rank int `json:"rank"`
	}
	if err := decode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	entry, err := h.store.RecordRank(accountIDFromContext(r.Context()), mux.Vars(r)["id"], input.Rank)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, withTrend(entry))
}

func (h *handler) deleteSERPEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteSERPEntry(accountIDFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		handleStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listApps(w http.ResponseWriter, r *http.Request) {
	apps, err := h.store.ListLinkedApps(accountIDFromContext(r.Context()))
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, apps)
}

func (h *handler) listAppsForWebsite(w http.ResponseWriter, r *http.Request) {
	apps, err := h.store.GetLinkedAppsByWebsiteID(accountIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, apps)
}

func (h *handler) createApp(w http.ResponseWriter, r *http.Request) {
	var input model.LinkedAppRequest
	if err := decode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	app, err := h.store.AddLinkedApp(accountIDFromContext(r.Context()), input)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, app)
}

func (h *handler) getApp(w http.ResponseWriter, r *http.Request) {
	app, err := h.store.GetLinkedAppByID(accountIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, app)
}

func (h *handler) updateApp(w http.ResponseWriter, r *http.Request) {
	var input model.LinkedAppRequest
	if err := decode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	app, err := h.store.UpdateLinkedApp(accountIDFromContext(r.Context()), mux.Vars(r)["id"], input)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, app)
}

func (h *handler) deleteApp(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteLinkedApp(accountIDFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		handleStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) linkApp(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := h.store.LinkWebsite(accountIDFromContext(r.Context()), db.LinkKindLinkedApp, vars["id"], vars["websiteID"])
	if err != nil {
		handleStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) unlinkApp(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := h.store.UnlinkWebsite(accountIDFromContext(r.Context()), db.LinkKindLinkedApp, vars["id"], vars["websiteID"])
	if err != nil {
		handleStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listWebhooks(w http.ResponseWriter, r *http.Request) {
	hooks, err := h.store.ListAPIWebhooks(accountIDFromContext(r.Context()))
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, hooks)
}

func (h *handler) listWebhooksForWebsite(w http.ResponseWriter, r *http.Request) {
	hooks, err := h.store.GetAPIWebhooksByWebsiteID(accountIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, hooks)
}

func (h *handler) createWebhook(w http.ResponseWriter, r *http.Request) {
	var input model.APIWebhookRequest
	if err := decode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	hook, err := h.store.AddAPIWebhook(accountIDFromContext(r.Context()), input)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, hook)
}

func (h *handler) getWebhook(w http.ResponseWriter, r *http.Request) {
	hook, err := h.store.GetAPIWebhookByID(accountIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, hook)
}

func (h *handler) updateWebhook(w http.ResponseWriter, r *http.Request) {
	var input model.APIWebhookRequest
	if err := decode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	hook, err := h.store.UpdateAPIWebhook(accountIDFromContext(r.Context()), mux.Vars(r)["id"], input)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, hook)
}

func (h *handler) deleteWebhook(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAPIWebhook(accountIDFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		handleStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) linkWebhook(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := h.store.LinkWebsite(accountIDFromContext(r.Context()), db.LinkKindAPIWebhook, vars["id"], vars["websiteID"])
	if err != nil {
		handleStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) unlinkWebhook(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := h.store.UnlinkWebsite(accountIDFromContext(r.Context()), db.LinkKindAPIWebhook, vars["id"], vars["websiteID"])
	if err != nil {
		handleStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
