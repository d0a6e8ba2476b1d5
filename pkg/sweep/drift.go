package sweep

import (
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/route53"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"

	"github.com/siteledger/siteledger/pkg/db"
)

// nameTypePair keys one record set in the hosted zone.
type nameTypePair struct {
	fqdn  string
	rtype string
}

type zoneChecker struct {
	zoneID     string
	baseDomain string
	svc        *route53.Route53
}

func newZoneChecker(zoneID string) (*zoneChecker, error) {
	s, err := session.NewSession()
	if err != nil {
		return nil, err
	}

	svc := route53.New(s, &aws.Config{
		MaxRetries: aws.Int(3),
	})

	z, err := svc.GetHostedZone(&route53.GetHostedZoneInput{
		Id: aws.String(zoneID),
	})
	if err != nil {
		return nil, err
	}

	return &zoneChecker{
		zoneID:     aws.StringValue(z.HostedZone.Id),
		baseDomain: strings.TrimSuffix(aws.StringValue(z.HostedZone.Name), "."),
		svc:        svc,
	}, nil
}

// checkDrift compares tracked DNS records for domains under the hosted
// zone with what Route53 actually serves and flips the drifted flag on
// mismatches. Only the flag changes; the tracked values stay what the
// user entered.
func (z *zoneChecker) checkDrift(database db.Database, domains []db.Domain) error {
	live, err := z.liveRecords()
	if err != nil {
		return err
	}

	var flagged, cleared int
	for _, domain := range domains {
		if domain.Name != z.baseDomain && !strings.HasSuffix(domain.Name, "."+z.baseDomain) {
			continue
		}

		records, err := database.DNSRecords().List(map[string]any{"domain_id": domain.ID})
		if err != nil {
			return err
		}

		for _, record := range records {
			fqdn := recordFQDN(record.Name, domain.Name)
			values, ok := live[nameTypePair{fqdn: fqdn, rtype: record.Type}]
			drifted := !ok || !containsValue(values, record.Value)
			if drifted == record.Drifted {
				continue
			}

			record.Drifted = drifted
			if err := database.DNSRecords().Save(&record); err != nil {
				return err
			}
			if drifted {
				flagged++
			} else {
				cleared++
			}
		}
	}

	if flagged > 0 || cleared > 0 {
		logrus.WithFields(logrus.Fields{
			"flagged": flagged,
			"cleared": cleared,
		}).Info("drift check finished")
	}
	return nil
}

// liveRecords pages through the hosted zone and collects every record
// set we know how to compare.
func (z *zoneChecker) liveRecords() (map[nameTypePair][]string, error) {
	input := &route53.ListResourceRecordSetsInput{
		HostedZoneId: aws.String(z.zoneID),
	}

	live := make(map[nameTypePair][]string)
	err := z.svc.ListResourceRecordSetsPages(input,
		func(page *route53.ListResourceRecordSetsOutput, lastPage bool) bool {
			pageRecords := make(map[nameTypePair][]string)
			for _, recordSet := range page.ResourceRecordSets {
				pair := nameTypePair{
					fqdn:  strings.TrimSuffix(cleanWildcard(aws.StringValue(recordSet.Name)), "."),
					rtype: aws.StringValue(recordSet.Type),
				}
				var values []string
				for _, rr := range recordSet.ResourceRecords {
					values = append(values, strings.Trim(aws.StringValue(rr.Value), `"`))
				}
				pageRecords[pair] = values
			}
			maps.Copy(live, pageRecords)
			return true
		})
	if err != nil {
		return nil, err
	}
	return live, nil
}

func cleanWildcard(name string) string {
	return strings.Replace(name, "\\052", "*", 1)
}

func recordFQDN(name, domain string) string {
	if name == "" || name == "@" {
		return domain
	}
	if strings.HasSuffix(name, "."+domain) || name == domain {
		return name
	}
	return name + "." + domain
}

func containsValue(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
