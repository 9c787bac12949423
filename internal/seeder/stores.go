package seeder

import "context"

// Every store keeps the same hours regardless of the source document.
const (
	storeOpens  = "09:00:00"
	storeCloses = "22:00:00"
)

var storeColumns = []string{"store_id", "phone", "add_1", "add_2", "city", "state", "zip", "country", "hrs_open", "hrs_close"}

func (s *Seeder) seedStores(ctx context.Context) (TableResult, error) {
	return seedDocument(ctx, s, TableStores, storeColumns, s.source.Stores, func(st Store) []any {
		return []any{st.StoreID, st.Phone, st.Address, st.Address2, st.City, st.Region, st.FullPostalCode, st.Country, storeOpens, storeCloses}
	})
}
