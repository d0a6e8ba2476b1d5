package apiserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/siteledger/siteledger/pkg/model"
)

func (h *handler) listDomains(w http.ResponseWriter, r *http.Request) {
	domains, err := h.store.ListDomains(accountIDFromContext(r.Context()))
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, domains)
}

func (h *handler) createDomain(w http.ResponseWriter, r *http.Request) {
	var input model.DomainRequest
	if err := decode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	domain, err := h.store.AddDomain(accountIDFromContext(r.Context()), input)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, domain)
}

func (h *handler) getDomain(w http.ResponseWriter, r *http.Request) {
	domain, err := h.store.GetDomainByID(accountIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, domain)
}

func (h *handler) updateDomain(w http.ResponseWriter, r *http.Request) {
	var input model.DomainRequest
	if err := decode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	domain, err := h.store.UpdateDomain(accountIDFromContext(r.Context()), mux.Vars(r)["id"], input)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, domain)
}

func (h *handler) deleteDomain(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteDomain(accountIDFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		handleStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listDomainsForWebsite(w http.ResponseWriter, r *http.Request) {
	domains, err := h.store.GetDomainsByWebsiteID(accountIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, domains)
}

func (h *handler) linkDomain(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := h.store.LinkDomainToWebsite(accountIDFromContext(r.Context()), vars["id"], vars["websiteID"])
	if err != nil {
		handleStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) unlinkDomain(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := h.store.UnlinkDomainFromWebsite(accountIDFromContext(r.Context()), vars["id"], vars["websiteID"])
	if err != nil {
		handleStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listDNSRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.GetDNSRecordsByDomainID(accountIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, records)
}

func (h *handler) createDNSRecord(w http.ResponseWriter, r *http.Request) {
	var input model.DNSRecordRequest
	if err := decode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	record, err := h.store.AddDNSRecord(accountIDFromContext(r.Context()), mux.Vars(r)["id"], input)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, record)
}

func (h *handler) getDNSRecord(w http.ResponseWriter, r *http.Request) {
	record, err := h.store.GetDNSRecordByID(accountIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, record)
}

func (h *handler) updateDNSRecord(w http.ResponseWriter, r *http.Request) {
	var input model.DNSRecordRequest
	if err := decode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	record, err := h.store.UpdateDNSRecord(accountIDFromContext(r.Context()), mux.Vars(r)["id"], input)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeSuccess(w, record)
}

func (h *handler) deleteDNSRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteDNSRecord(accountIDFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		handleStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
