package db

// Table is the per-kind persistence contract. Get reports whether the
// id exists instead of returning a driver-specific not-found error, and
// Remove reports how many rows went away so callers can tell a miss
// from a delete.
type Table[T any] interface {
	List(conds map[string]any) ([]T, error)
	Get(id string) (T, bool, error)
	Insert(rec *T) error
	Save(rec *T) error
	Remove(id string) (int64, error)
	RemoveWhere(conds map[string]any) (int64, error)
	Count(conds map[string]any) (int64, error)
}

// Database is the persistence provider behind the asset graph store.
// Transaction runs fn against a Database bound to one transaction so a
// cascade either fully applies or fully rolls back.
type Database interface {
	Accounts() Table[Account]
	Tiers() Table[PricingTier]
	Websites() Table[Website]
	Domains() Table[Domain]
	DNSRecords() Table[DNSRecord]
	Credentials() Table[Credential]
	SERPEntries() Table[SERPEntry]
	LinkedApps() Table[LinkedApp]
	APIWebhooks() Table[APIWebhook]
	Links() Table[WebsiteLink]

	Transaction(fn func(tx Database) error) error
}
