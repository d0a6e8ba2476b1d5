// Package sweep runs the background maintenance loop: expiry
// classification for tracked domains, WHOIS registration checks and
// DNS drift detection against a Route53 hosted zone.
package sweep

import (
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/siteledger/siteledger/pkg/db"
	"github.com/siteledger/siteledger/pkg/model"
)

type Options struct {
	IntervalSeconds int64
	WhoisEnabled    bool
	Route53ZoneID   string
}

type sweeper struct {
	db              db.Database
	intervalSeconds int64
	whoisEnabled    bool
	zone            *zoneChecker
	log             *logrus.Entry
}

func New(database db.Database, opts Options) (*sweeper, error) {
	s := &sweeper{
		db:              database,
		intervalSeconds: opts.IntervalSeconds,
		whoisEnabled:    opts.WhoisEnabled,
		log:             logrus.WithField("component", "sweeper"),
	}

	if opts.Route53ZoneID != "" {
		zone, err := newZoneChecker(opts.Route53ZoneID)
		if err != nil {
			return nil, err
		}
		s.zone = zone
	}

	return s, nil
}

func (s *sweeper) Start(stopCh <-chan struct{}) {
	s.log.WithFields(logrus.Fields{
		"interval": s.intervalSeconds,
		"whois":    s.whoisEnabled,
		"drift":    s.zone != nil,
	}).Info("starting sweep daemon")
	wait.JitterUntil(s.sweep, time.Duration(s.intervalSeconds)*time.Second, .002, true, stopCh)
}

func (s *sweeper) sweep() {
	s.log.Debug("beginning sweep")

	domains, err := s.db.Domains().List(nil)
	if err != nil {
		s.log.Errorf("problem listing domains: %v", err)
		return
	}

	s.sweepExpirations(domains)

	if s.whoisEnabled {
		s.sweepWhois(domains)
	}

	if s.zone != nil {
		if err := s.zone.checkDrift(s.db, domains); err != nil {
			s.log.Errorf("drift check failed: %v", err)
		}
	}
}

// sweepExpirations marks lapsed domains as expired and logs how many
// are coming up for renewal. Status writes go through the same rules a
// caller update would: UpdatedAt is refreshed, nothing else changes.
func (s *sweeper) sweepExpirations(domains []db.Domain) {
	now := time.Now()
	var expired, expiringSoon int

	for _, domain := range domains {
		switch model.ClassifyExpiry(domain.ExpirationDate, now) {
		case model.ExpiryExpired:
			if domain.Status == model.DomainStatusExpired {
				continue
			}
			domain.Status = model.DomainStatusExpired
			domain.UpdatedAt = now
			if err := s.db.Domains().Save(&domain); err != nil {
				s.log.Errorf("problem expiring domain %s: %v", domain.Name, err)
				continue
			}
			expired++
		case model.ExpiryExpiringSoon:
			expiringSoon++
		}
	}

	if expired > 0 || expiringSoon > 0 {
		s.log.WithFields(logrus.Fields{
			"expired":      expired,
			"expiringSoon": expiringSoon,
		}).Info("expiration sweep finished")
	}
}
