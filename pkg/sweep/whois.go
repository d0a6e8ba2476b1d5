package sweep

import (
	"strings"

	"github.com/likexian/whois"

	"github.com/siteledger/siteledger/pkg/db"
	"github.com/siteledger/siteledger/pkg/model"
)

// WHOIS responses that clearly say the name is not registered anymore.
var unregisteredPatterns = []string{
	"no match for",
	"not found",
	"no entries found",
	"domain not found",
	"no data found",
	"status: free",
	"status: available",
	"no object found",
	"object does not exist",
	"is available for registration",
	"the queried object does not exist",
	"no such domain",
	"domain name has not been registered",
	"no matching record",
}

// sweepWhois cross-checks active domains against WHOIS. A tracked
// domain that WHOIS no longer knows about usually means the
// registration lapsed without the owner noticing; it is logged loudly
// but the status is left for the operator to change.
func (s *sweeper) sweepWhois(domains []db.Domain) {
	for _, domain := range domains {
		if domain.Status != model.DomainStatusActive {
			continue
		}
		if looksUnregistered(domain.Name) {
			s.log.WithField("domain", domain.Name).Warn("tracked domain appears unregistered in WHOIS")
		}
	}
}

func looksUnregistered(name string) bool {
	result, err := whois.Whois(name)
	if err != nil {
		// conservative: a failed lookup proves nothing
		return false
	}
	return whoisSaysUnregistered(result)
}

func whoisSaysUnregistered(result string) bool {
	lower := strings.ToLower(result)
	for _, pattern := range unregisteredPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
