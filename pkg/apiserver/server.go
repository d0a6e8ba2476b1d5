package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/siteledger/siteledger/pkg/store"
	"github.com/siteledger/siteledger/pkg/version"
)

type apiServer struct {
	ctx  context.Context
	log  *logrus.Entry
	port int
}

func NewAPIServer(ctx context.Context, log *logrus.Entry, port int) *apiServer {
	return &apiServer{
		ctx:  ctx,
		log:  log,
		port: port,
	}
}

func (a *apiServer) Start(s *store.Store) error {
	logrus.Infof("Version: %s", version.Get())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.port),
		Handler: ghandlers.CORS()(a.router(s)),
	}

	go func() {
		a.log.WithField("port", a.port).Info("starting api server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Fatalf("listen: %s\n", err)
		}
	}()

	<-a.ctx.Done()

	a.log.Info("shutting down the api server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		a.log.WithError(err).Error("unable to shutdown the api server gracefully")
		return err
	}

	return nil
}

func (a *apiServer) router(s *store.Store) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(loggingMiddleware(a.log))
	h := newHandler(s)

	router.Path("/").HandlerFunc(h.root)
	router.Path("/healthz").HandlerFunc(h.root)

	api := router.PathPrefix("/v1").Subrouter()

	// Account signup is the only open write; the token it returns is
	// required for everything below.
	api.Path("/accounts").Methods("POST").HandlerFunc(h.createAccount)
	api.Path("/tiers").Methods("GET").HandlerFunc(h.listTiers)

	authed := api.NewRoute().Subrouter()
	authed.Use(tokenAuthMiddleware(s))

	authed.Path("/account").Methods("GET").HandlerFunc(h.getAccount)
	authed.Path("/account").Methods("PUT").HandlerFunc(h.updateAccount)
	authed.Path("/stats").Methods("GET").HandlerFunc(h.getStats)

	authed.Path("/websites").Methods("GET").HandlerFunc(h.listWebsites)
	authed.Path("/websites").Methods("POST").HandlerFunc(h.createWebsite)
	authed.Path("/websites/{id}").Methods("GET").HandlerFunc(h.getWebsite)
	authed.Path("/websites/{id}").Methods("PUT").HandlerFunc(h.updateWebsite)
	authed.Path("/websites/{id}").Methods("DELETE").HandlerFunc(h.deleteWebsite)

	// sub-resources scoped to one website
	authed.Path("/websites/{id}/credentials").Methods("GET").HandlerFunc(h.listCredentials)
	authed.Path("/websites/{id}/credentials").Methods("POST").HandlerFunc(h.createCredential)
	authed.Path("/websites/{id}/serp").Methods("GET").HandlerFunc(h.listSERPEntries)
	authed.Path("/websites/{id}/serp").Methods("POST").HandlerFunc(h.createSERPEntry)
	authed.Path("/websites/{id}/domains").Methods("GET").HandlerFunc(h.listDomainsForWebsite)
	authed.Path("/websites/{id}/apps").Methods("GET").HandlerFunc(h.listAppsForWebsite)
	authed.Path("/websites/{id}/webhooks").Methods("GET").HandlerFunc(h.listWebhooksForWebsite)

	authed.Path("/credentials/{id}").Methods("GET").HandlerFunc(h.getCredential)
	authed.Path("/credentials/{id}").Methods("PUT").HandlerFunc(h.updateCredential)
	authed.Path("/credentials/{id}").Methods("DELETE").HandlerFunc(h.deleteCredential)

	authed.Path("/serp/{id}").Methods("GET").HandlerFunc(h.getSERPEntry)
	authed.Path("/serp/{id}").Methods("PUT").HandlerFunc(h.updateSERPEntry)
	authed.Path("/serp/{id}").Methods("DELETE").HandlerFunc(h.deleteSERPEntry)
	authed.Path("/serp/{id}/rank").Methods("POST").HandlerFunc(h.recordRank)

	authed.Path("/domains").Methods("GET").HandlerFunc(h.listDomains)
	authed.Path("/domains").Methods("POST").HandlerFunc(h.createDomain)
	authed.Path("/domains/{id}").Methods("GET").HandlerFunc(h.getDomain)
	authed.Path("/domains/{id}").Methods("PUT").HandlerFunc(h.updateDomain)
	authed.Path("/domains/{id}").Methods("DELETE").HandlerFunc(h.deleteDomain)
	authed.Path("/domains/{id}/records").Methods("GET").HandlerFunc(h.listDNSRecords)
	authed.Path("/domains/{id}/records").Methods("POST").HandlerFunc(h.createDNSRecord)
	authed.Path("/domains/{id}/websites/{websiteID}").Methods("PUT").HandlerFunc(h.linkDomain)
	authed.Path("/domains/{id}/websites/{websiteID}").Methods("DELETE").HandlerFunc(h.unlinkDomain)

	authed.Path("/records/{id}").Methods("GET").HandlerFunc(h.getDNSRecord)
	authed.Path("/records/{id}").Methods("PUT").HandlerFunc(h.updateDNSRecord)
	authed.Path("/records/{id}").Methods("DELETE").HandlerFunc(h.deleteDNSRecord)

	authed.Path("/apps").Methods("GET").HandlerFunc(h.listApps)
	authed.Path("/apps").Methods("POST").HandlerFunc(h.createApp)
	authed.Path("/apps/{id}").Methods("GET").HandlerFunc(h.getApp)
	authed.Path("/apps/{id}").Methods("PUT").HandlerFunc(h.updateApp)
	authed.Path("/apps/{id}").Methods("DELETE").HandlerFunc(h.deleteApp)
	authed.Path("/apps/{id}/websites/{websiteID}").Methods("PUT").HandlerFunc(h.linkApp)
	authed.Path("/apps/{id}/websites/{websiteID}").Methods("DELETE").HandlerFunc(h.unlinkApp)

	authed.Path("/webhooks").Methods("GET").HandlerFunc(h.listWebhooks)
	authed.Path("/webhooks").Methods("POST").HandlerFunc(h.createWebhook)
	authed.Path("/webhooks/{id}").Methods("GET").HandlerFunc(h.getWebhook)
	authed.Path("/webhooks/{id}").Methods("PUT").HandlerFunc(h.updateWebhook)
	authed.Path("/webhooks/{id}").Methods("DELETE").HandlerFunc(h.deleteWebhook)
	authed.Path("/webhooks/{id}/websites/{websiteID}").Methods("PUT").HandlerFunc(h.linkWebhook)
	authed.Path("/webhooks/{id}/websites/{websiteID}").Methods("DELETE").HandlerFunc(h.unlinkWebhook)

	// Has to be defined after all other paths so misses still hit the
	// logging middleware.
	router.NotFoundHandler = router.NewRoute().HandlerFunc(http.NotFound).GetHandler()

	return router
}
